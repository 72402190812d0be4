package signature

import (
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/digitorus/pkcs7"
)

const x509BlockType = "SIGNED MESSAGE"

func parseX509(raw []byte) (string, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return "", errors.New("decode pem: no block")
	}
	if block.Type != x509BlockType {
		return "", fmt.Errorf("unexpected pem type %q", block.Type)
	}

	p7, err := pkcs7.Parse(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse pkcs7: %w", err)
	}
	if len(p7.Signers) == 0 {
		return "", errors.New("no signer infos")
	}

	if cert := p7.GetOnlySigner(); cert != nil {
		return cert.Subject.String(), nil
	}
	return "", nil
}
