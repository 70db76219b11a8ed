package dto

type SetupStoreInput struct {
	UserID      string
	Name        string
	Description string
	ImageURL    string
	Currency    string
}

type UpdateStoreInput struct {
	ID          string
	Name        *string
	Description *string
	ImageURL    *string
}
