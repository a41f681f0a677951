package flickrsdk

// RequestToken is the temporary credential of the OAuth flow.
type RequestToken struct {
	Token  string
	Secret string
}

// AccessToken is the long lived credential stored in the config.
type AccessToken struct {
	Token    string
	Secret   string
	UserNSID string
	Username string
	FullName string
}

// Permission levels a token can be authorized for.
const (
	PermsRead   = "read"
	PermsWrite  = "write"
	PermsDelete = "delete"
)

// OutOfBand is the callback used when the user copies the verifier by hand.
const OutOfBand = "oob"
