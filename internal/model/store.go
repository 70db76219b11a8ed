package model

type Store struct {
	BaseModel
	UserID      string  `db:"user_id" json:"user_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	ImageURL    *string `db:"image_url" json:"image_url"`
	Currency    string  `db:"currency" json:"currency"`
}
