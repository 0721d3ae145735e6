package users

// CreateUserInput is the registration payload of POST /users.
type CreateUserInput struct {
	Name       string `json:"name" validate:"required"`
	LastName   string `json:"lastname" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required"`
	Zipcode    string `json:"zipcode" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	State      string `json:"state" validate:"required,len=2"`
	Password   string `json:"password" validate:"required,min=8"`
}

// LoginInput is the body of POST /login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the user service representation of an account.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LastName   string `json:"lastname"`
	Email      string `json:"email"`
	Address    string `json:"address,omitempty"`
	Zipcode    string `json:"zipcode,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	Phone      string `json:"phone,omitempty"`
	State      string `json:"state,omitempty"`
}
