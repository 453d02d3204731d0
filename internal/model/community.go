package model

// ForumPost - запись в форуме. Комментарии лежат внутри документа поста,
// ключ карты совпадает с Comment.ID.
type ForumPost struct {
	ID        string             `json:"id"`
	Author    string             `json:"author"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Timestamp string             `json:"timestamp"`
	Likes     int                `json:"likes"`
	Reposts   int                `json:"reposts"`
	Comments  map[string]Comment `json:"comments,omitempty"`
	Tags      []string           `json:"tags"`
}

// Comment - комментарий к посту форума.
type Comment struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// CollabStatus - статус коллективного проекта.
type CollabStatus string

const (
	CollabActive    CollabStatus = "active"
	CollabCompleted CollabStatus = "completed"
)

// CollabProject - коллективная история: основатель пишет первую главу,
// вторую и третью забирают первые откликнувшиеся авторы.
type CollabProject struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Starter     string       `json:"starter"`
	Description string       `json:"description"`
	Day1        string       `json:"day1"`
	Day2        string       `json:"day2,omitempty"`
	Day3        string       `json:"day3,omitempty"`
	Day2Author  string       `json:"day2Author,omitempty"`
	Day3Author  string       `json:"day3Author,omitempty"`
	Status      CollabStatus `json:"status"`
	Timestamp   string       `json:"timestamp"`
}

// Message - личное сообщение 1:1.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	IsRead    bool   `json:"isRead"`
}

// ChatMessage - сообщение глобального живого чата (не персистится).
type ChatMessage struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
