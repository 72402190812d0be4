// Package openpgp verifies OpenPGP commit signatures against a keyring.
//
// It implements [github.com/meigma/revtrust/policy.Verifier]:
//
//	keys, _ := os.Open("advisory-db-maintainers.asc")
//	v, err := openpgp.NewVerifier(keys)
//	if err != nil {
//	    return err
//	}
//	c, err := revtrust.New(revtrust.WithPolicy(policy.RequireVerified(v)))
package openpgp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/meigma/revtrust/signature"
)

// Sentinel errors for verification.
var (
	// ErrEmptyKeyRing indicates the keyring contained no keys.
	ErrEmptyKeyRing = errors.New("openpgp: empty keyring")

	// ErrUnsupportedFormat indicates the signature is not an OpenPGP signature.
	ErrUnsupportedFormat = errors.New("openpgp: unsupported signature format")

	// ErrVerification indicates the signature did not verify against the keyring.
	ErrVerification = errors.New("openpgp: verification failed")
)

// Result describes a successful verification.
type Result struct {
	// KeyID is the primary key ID of the signer, upper case hex.
	KeyID string

	// Fingerprint is the primary key fingerprint, upper case hex.
	Fingerprint string

	// Identities are the user IDs bound to the signing key.
	Identities []string
}

// Verifier checks detached OpenPGP signatures.
type Verifier struct {
	keyring openpgp.EntityList
	config  *packet.Config
}

// NewVerifier reads an ASCII armored keyring.
func NewVerifier(armoredKeyRing io.Reader) (*Verifier, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(armoredKeyRing)
	if err != nil {
		return nil, fmt.Errorf("openpgp: read keyring: %w", err)
	}
	if len(keyring) == 0 {
		return nil, ErrEmptyKeyRing
	}
	return &Verifier{keyring: keyring}, nil
}

// Check verifies sig over signed and reports the signing key.
func (v *Verifier) Check(sig *signature.Signature, signed []byte) (*Result, error) {
	if sig.Format() != signature.FormatOpenPGP {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, sig.Format())
	}

	entity, err := openpgp.CheckArmoredDetachedSignature(
		v.keyring,
		bytes.NewReader(signed),
		bytes.NewReader(sig.Raw()),
		v.config,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	res := &Result{
		KeyID:       fmt.Sprintf("%016X", entity.PrimaryKey.KeyId),
		Fingerprint: fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint),
	}
	for name := range entity.Identities {
		res.Identities = append(res.Identities, name)
	}
	sort.Strings(res.Identities)
	return res, nil
}

// Verify implements policy.Verifier.
func (v *Verifier) Verify(_ context.Context, sig *signature.Signature, signed []byte) error {
	_, err := v.Check(sig, signed)
	return err
}
