// Package models defines the content categories and the items stored in them.
package models

import "strings"

// FieldKind says which payload field a category's items carry.
type FieldKind int

const (
	// FieldBody items carry text in the content field.
	FieldBody FieldKind = iota
	// FieldLink items carry a URL in the link field.
	FieldLink
)

// Column is the storage column and JSON field name for the kind.
func (k FieldKind) Column() string {
	if k == FieldLink {
		return "link"
	}
	return "content"
}

// Category describes one fixed content partition.
type Category struct {
	Key   string
	Name  string
	Table string
	Field FieldKind
}

// RequiresLink reports whether items must carry a link instead of a body.
func (c Category) RequiresLink() bool {
	return c.Field == FieldLink
}

// Category keys.
const (
	Readings = "readings"
	Gospels  = "gospels"
	Music    = "music"
	Prayers  = "prayers"
	Poems    = "poems"
)

// registry is in canonical order; documents list sections in this order.
var registry = []Category{
	{Key: Readings, Name: "Readings", Table: "readings", Field: FieldBody},
	{Key: Gospels, Name: "Gospels", Table: "gospels", Field: FieldBody},
	{Key: Music, Name: "Music", Table: "music", Field: FieldLink},
	{Key: Prayers, Name: "Prayers", Table: "prayers", Field: FieldBody},
	{Key: Poems, Name: "Poems", Table: "poems", Field: FieldBody},
}

// Categories returns every category in canonical order.
func Categories() []Category {
	out := make([]Category, len(registry))
	copy(out, registry)
	return out
}

// CategoryKeys returns the keys in canonical order.
func CategoryKeys() []string {
	keys := make([]string, len(registry))
	for i, c := range registry {
		keys[i] = c.Key
	}
	return keys
}

// Lookup resolves a category key case-insensitively.
func Lookup(key string) (Category, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, c := range registry {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}
