package models

// Post is a bulletin board entry.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	AuthorName string     `json:"authorName"`
	ImageURLs  []string   `json:"imageUrls"`
	ViewCount  int        `json:"viewCount"`
	CreatedAt  *Timestamp `json:"createdAt"`
}

// NewPost is sent as multipart form data; images are attached as file parts.
type NewPost struct {
	Title      string
	Content    string
	ImagePaths []string
}
