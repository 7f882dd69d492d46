package ports

type CredentialService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) (bool, error)
	IssueToken() (string, error)
	ValidateToken(token string) error // nil, domain.ErrTokenExpired or domain.ErrTokenInvalid
}
