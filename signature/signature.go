package signature

import (
	"bytes"
	"fmt"
)

// Format identifies the signature container.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatOpenPGP
	FormatSSH
	FormatX509
)

// Armor headers used for format detection.
const (
	openPGPHeader = "-----BEGIN PGP SIGNATURE-----"
	sshHeader     = "-----BEGIN SSH SIGNATURE-----"
	x509Header    = "-----BEGIN SIGNED MESSAGE-----"
)

// String returns the name git uses for the format in gpg.format.
func (f Format) String() string {
	switch f {
	case FormatOpenPGP:
		return "openpgp"
	case FormatSSH:
		return "ssh"
	case FormatX509:
		return "x509"
	default:
		return "unknown"
	}
}

// Signature is a structurally valid detached signature.
type Signature struct {
	format Format
	raw    []byte
	signer string
}

// Parse decodes raw into a Signature. raw is kept byte for byte.
func Parse(raw []byte) (*Signature, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, ErrEmpty)
	}

	var (
		format Format
		signer string
		err    error
	)
	switch {
	case bytes.HasPrefix(raw, []byte(openPGPHeader)):
		format = FormatOpenPGP
		signer, err = parseOpenPGP(raw)
	case bytes.HasPrefix(raw, []byte(sshHeader)):
		format = FormatSSH
		signer, err = parseSSH(raw)
	case bytes.HasPrefix(raw, []byte(x509Header)):
		format = FormatX509
		signer, err = parseX509(raw)
	default:
		return nil, fmt.Errorf("%w: %w", ErrMalformed, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, format, err)
	}

	return &Signature{
		format: format,
		raw:    bytes.Clone(raw),
		signer: signer,
	}, nil
}

// Format returns the container format.
func (s *Signature) Format() Format {
	return s.format
}

// Raw returns a copy of the signature bytes exactly as parsed.
func (s *Signature) Raw() []byte {
	return bytes.Clone(s.raw)
}

// Signer returns an unverified hint naming the signing key: the OpenPGP
// issuer key ID, the SSH key fingerprint or the X.509 signer subject.
// It is empty when the container does not name a signer.
func (s *Signature) Signer() string {
	return s.signer
}

// String implements fmt.Stringer.
func (s *Signature) String() string {
	if s.signer == "" {
		return s.format.String()
	}
	return s.format.String() + " " + s.signer
}
