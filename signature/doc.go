// Package signature decodes the detached signatures git stores in the gpgsig
// header of a commit.
//
// Three container formats are recognised by their armor header:
//
//   - OpenPGP ("-----BEGIN PGP SIGNATURE-----"), produced by gpg
//   - SSH ("-----BEGIN SSH SIGNATURE-----"), produced by ssh-keygen -Y sign
//   - X.509 ("-----BEGIN SIGNED MESSAGE-----"), produced by gitsign and smimesign
//
// [Parse] validates the container structure only. It never checks the
// signature against a key; that is the job of a verifier such as
// [github.com/meigma/revtrust/verify/openpgp].
package signature
