// Package revtrust checks whether the current checkout of a git data
// repository, such as an advisory database mirror, can be treated as
// authoritative.
//
// It answers three questions about the head revision: who produced it, is it
// signed, and is it recent enough. When the answer is no, the repository can
// be reset to a revision that was trusted before.
//
// # Inspection
//
// [InspectHead] reads the head revision once into an immutable
// [RevisionInfo]:
//
//	repo, err := vcs.Open("/srv/advisory-db")
//	if err != nil {
//	    return err
//	}
//	info, err := revtrust.InspectHead(repo)
//	if err != nil {
//	    return err // repository is structurally malformed
//	}
//	fmt.Println(info.ID(), info.Author(), info.Summary())
//
// When the revision is signed, [RevisionInfo.Signature] returns the parsed
// signature and [RevisionInfo.RawSignedBytes] the exact bytes it covers.
// revtrust never verifies signatures itself; pass those bytes to a verifier
// such as [github.com/meigma/revtrust/verify/openpgp].
//
// # Freshness
//
// [EnsureFresh] compares the commit time against an explicit clock reading:
//
//	if err := revtrust.EnsureFresh(info, 30, time.Now()); err != nil {
//	    var stale *revtrust.StaleError
//	    if errors.As(err, &stale) {
//	        log.Printf("last commit %s", stale.LastCommit)
//	    }
//	}
//
// # Recovery
//
// [ResetTo] hard resets the working tree to a revision. It is destructive
// and never called implicitly by inspection.
//
// # Checker
//
// [Checker] ties the pieces together and remembers the last trusted revision
// per repository in a [github.com/meigma/revtrust/pin.Store]:
//
//	c, err := revtrust.New(
//	    revtrust.WithMaxAgeDays(30),
//	    revtrust.WithRequireSignature(true),
//	    revtrust.WithPolicy(policy.RequireVerified(verifier)),
//	    revtrust.WithPinStore(pins),
//	)
//	verdict, err := c.Check(ctx, repo)
//	if err != nil {
//	    return err
//	}
//	if !verdict.Trusted() {
//	    _, err = c.Recover(ctx, repo)
//	}
package revtrust
