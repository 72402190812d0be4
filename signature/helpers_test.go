package signature

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/digitorus/pkcs7"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// sshSignature builds an armored SSHSIG over message in the git namespace.
func sshSignature(t *testing.T, message []byte) []byte {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	digest := sha512.Sum512(message)
	signedData := append([]byte(sshSigMagic), ssh.Marshal(struct {
		Namespace     string
		Reserved      string
		HashAlgorithm string
		Hash          []byte
	}{"git", "", "sha512", digest[:]})...)

	sig, err := signer.Sign(rand.Reader, signedData)
	require.NoError(t, err)

	blob := append([]byte(sshSigMagic), ssh.Marshal(sshSigBlob{
		Version:       sshSigVersion,
		PublicKey:     signer.PublicKey().Marshal(),
		Namespace:     "git",
		HashAlgorithm: "sha512",
		Signature:     ssh.Marshal(sig),
	})...)

	return armorSSH(blob)
}

func armorSSH(blob []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(blob)
	var buf bytes.Buffer
	buf.WriteString(sshHeader + "\n")
	for len(encoded) > 70 {
		buf.WriteString(encoded[:70] + "\n")
		encoded = encoded[70:]
	}
	buf.WriteString(encoded + "\n")
	buf.WriteString(sshFooter + "\n")
	return buf.Bytes()
}

// x509Signature builds a detached PKCS#7 signature in the format gitsign
// writes into commits.
func x509Signature(t *testing.T, message []byte) []byte {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "advisory-signer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	sd, err := pkcs7.NewSignedData(message)
	require.NoError(t, err)
	require.NoError(t, sd.AddSigner(cert, key, pkcs7.SignerInfoConfig{}))
	sd.Detach()
	out, err := sd.Finish()
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: x509BlockType, Bytes: out})
}
