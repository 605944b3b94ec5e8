package user

// User is an account known to the dealership. PasswordHash is a bcrypt hash;
// the clear-text password never reaches the domain layer.
type User struct {
	ID           int64
	Role         Role
	Username     string
	PasswordHash string
	Name         string
	Surname      string
	Phone        string
	Email        string
}

// NewUser builds an account with the given role. The ID is assigned by the
// store on create.
func NewUser(role Role, username, passwordHash, name, surname, phone, email string) (*User, error) {
	if username == "" || passwordHash == "" {
		return nil, ErrMissingField
	}
	if !role.Valid() {
		return nil, ErrUnknownRole
	}

	return &User{
		Role:         role,
		Username:     username,
		PasswordHash: passwordHash,
		Name:         name,
		Surname:      surname,
		Phone:        phone,
		Email:        email,
	}, nil
}
