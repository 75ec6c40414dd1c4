package domain

// Comment belongs to exactly one card. The author is immutable after
// creation; content and file url are the only mutable fields.
type Comment struct {
	Id          CommentId
	Content     string
	CardId      CardId
	AuthorId    UserId
	AuthorName  string
	AuthorEmail Email
	FileUrl     *string
}

type CommentCreationData struct {
	CardId      CardId
	Content     string
	AuthorEmail Email
	FileUrl     *string
}
