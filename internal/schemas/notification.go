package schemas

// Notification is a server-side event addressed to the user, such as someone
// joining through their invite code.
type Notification struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
	Time    string `json:"time"`
}
