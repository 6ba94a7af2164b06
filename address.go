package courier

// EmailAddress is a single email address.
//
// It is a cheap immutable value type: copy it freely, compare it with ==.
// Equality and ordering are by exact string value, and String returns
// exactly the text the address was built from.
type EmailAddress struct {
	address string
}

// NewEmailAddress creates an EmailAddress wrapping the given text verbatim.
//
// No syntax validation is performed yet, so the call currently always
// succeeds, including for "" and syntactically invalid text. The fallible
// signature is deliberate: when validation is introduced it will return
// ErrInvalidEmailAddress, and callers that already check the error will not
// need to change.
func NewEmailAddress(address string) (EmailAddress, error) {
	return EmailAddress{address: address}, nil
}

// String returns the address text exactly as it was provided.
func (a EmailAddress) String() string {
	return a.address
}

// MarshalText implements encoding.TextMarshaler.
// An EmailAddress serializes as its plain text form.
func (a EmailAddress) MarshalText() ([]byte, error) {
	return []byte(a.address), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Parsing delegates to NewEmailAddress and therefore shares its
// (currently unreachable) failure path.
func (a *EmailAddress) UnmarshalText(text []byte) error {
	addr, err := NewEmailAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
