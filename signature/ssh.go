package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"
)

const (
	sshFooter     = "-----END SSH SIGNATURE-----"
	sshSigMagic   = "SSHSIG"
	sshSigVersion = 1
)

// sshSigBlob is the wire layout following the SSHSIG magic, see
// PROTOCOL.sshsig in OpenSSH.
type sshSigBlob struct {
	Version       uint32
	PublicKey     []byte
	Namespace     string
	Reserved      string
	HashAlgorithm string
	Signature     []byte
}

func parseSSH(raw []byte) (string, error) {
	body := bytes.TrimPrefix(raw, []byte(sshHeader))
	end := bytes.Index(body, []byte(sshFooter))
	if end < 0 {
		return "", errors.New("missing armor footer")
	}

	encoded := bytes.Join(bytes.Fields(body[:end]), nil)
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(decoded, encoded)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	decoded = decoded[:n]

	if !bytes.HasPrefix(decoded, []byte(sshSigMagic)) {
		return "", errors.New("missing SSHSIG magic")
	}

	var blob sshSigBlob
	if err := ssh.Unmarshal(decoded[len(sshSigMagic):], &blob); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	if blob.Version != sshSigVersion {
		return "", fmt.Errorf("unsupported version %d", blob.Version)
	}
	if blob.Namespace == "" {
		return "", errors.New("empty namespace")
	}
	switch blob.HashAlgorithm {
	case "sha256", "sha512":
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", blob.HashAlgorithm)
	}

	pub, err := ssh.ParsePublicKey(blob.PublicKey)
	if err != nil {
		return "", fmt.Errorf("parse public key: %w", err)
	}

	var sig ssh.Signature
	if err := ssh.Unmarshal(blob.Signature, &sig); err != nil {
		return "", fmt.Errorf("unmarshal signature: %w", err)
	}

	return ssh.FingerprintSHA256(pub), nil
}
