package domain

import "time"

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	PasswordHash    string    `json:"-"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	JobCategory     string    `json:"job_category,omitempty"`
	YearsOfExp      int       `json:"years_of_experience"`
	AuthProvider    string    `json:"auth_provider,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
