package types

// Account is a named demo account with hex encoded key material
type Account struct {
	Name       string `json:"name" yaml:"name"`
	PublicKey  string `json:"public" yaml:"public"`   // hex, 33 or 65 bytes once decoded
	PrivateKey string `json:"private" yaml:"private"` // hex, 32 bytes once decoded
}

// SignedMessage is the result of signing a message on behalf of an account
type SignedMessage struct {
	Signature string `json:"signature"` // hex(recoveryId || r || s)
	PublicKey string `json:"publicKey"` // hex, recomputed from the private key
}
