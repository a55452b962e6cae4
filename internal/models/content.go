package models

import "time"

// ContentItem is a stored reading, gospel, song, prayer or poem.
// Exactly one of Content and Link is set, according to the category.
// The JSON id key is "_id" for the browser client.
type ContentItem struct {
	ID        string    `db:"id"         json:"_id"`
	Title     string    `db:"title"      json:"title"`
	Content   string    `db:"content"    json:"content,omitempty"`
	Link      string    `db:"link"       json:"link,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Payload returns the body or link, whichever the category uses.
func (i ContentItem) Payload(c Category) string {
	if c.RequiresLink() {
		return i.Link
	}
	return i.Content
}

// CreateRequest is the body of POST /api/content/{category}.
type CreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
}

// DeleteResponse is the body returned after a successful delete.
type DeleteResponse struct {
	Message       string `json:"message"`
	DeletedItemID string `json:"deletedItemId"`
}

// Wishlist maps category keys to selected item ids.
type Wishlist map[string][]string

// GenerateRequest is the body of POST /api/pdf/generate.
type GenerateRequest struct {
	Wishlist Wishlist `json:"wishlist"`
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
}
