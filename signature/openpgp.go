package signature

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

func parseOpenPGP(raw []byte) (string, error) {
	block, err := armor.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode armor: %w", err)
	}
	if block.Type != openpgp.SignatureType {
		return "", fmt.Errorf("unexpected armor type %q", block.Type)
	}

	p, err := packet.Read(block.Body)
	if err != nil {
		return "", fmt.Errorf("read packet: %w", err)
	}

	switch sig := p.(type) {
	case *packet.Signature:
		if sig.IssuerFingerprint != nil {
			return strings.ToUpper(hex.EncodeToString(sig.IssuerFingerprint)), nil
		}
		if sig.IssuerKeyId != nil {
			return fmt.Sprintf("%016X", *sig.IssuerKeyId), nil
		}
		return "", nil
	default:
		return "", errors.New("first packet is not a signature")
	}
}
