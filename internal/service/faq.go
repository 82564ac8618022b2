// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/kemujan/hubcms/internal/keypath"

// NextFAQID returns one more than the largest numeric "id" among the items
// of a FAQ question list, or 1 when there are none.
func NextFAQID(items keypath.Node) int64 {
	var maxID int64
	for _, item := range items.Items() {
		idNode, ok := item.Field("id")
		if !ok {
			continue
		}
		if n, ok := idNode.Num(); ok && int64(n) > maxID {
			maxID = int64(n)
		}
	}
	return maxID + 1
}

// NewFAQItem returns an empty FAQ item with the given id.
func NewFAQItem(id int64) keypath.Node {
	return keypath.Map(map[string]keypath.Node{
		"id":       keypath.Number(float64(id)),
		"question": keypath.String(""),
		"answer":   keypath.String(""),
	})
}
