package model

// UserStat is one row of the admin users table.
type UserStat struct {
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	PhoneOrEmail string `json:"phone_number"`
	Swipes       int    `json:"swipes"`
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
	SuperLikes   int    `json:"super_likes"`
}

type TopQuestion struct {
	Question Question `json:"question"`
	Likes    int      `json:"likes"`
}

type Health struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}
