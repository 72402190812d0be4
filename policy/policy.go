// Package policy provides composition utilities and common policies for
// deciding whether a repository head revision is trusted.
//
// # Composition
//
// Use RequireAll for AND logic (all policies must pass):
//
//	combined := policy.RequireAll(
//	    policy.RequireFormat(signature.FormatOpenPGP),
//	    policy.RequireVerified(verifier),
//	)
//
// Use RequireAny for OR logic (at least one policy must pass):
//
//	bots := policy.RequireAny(
//	    policy.RequireAuthor("Advisory Bot <*>"),
//	    policy.RequireVerified(maintainerKeys),
//	)
//
// Compositions can be nested and passed to revtrust.WithPolicy.
package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meigma/revtrust"
)

// RequireAll returns a policy that passes only if all given policies pass.
//
// Policies are evaluated in order. Evaluation stops at the first failure.
// If no policies are provided, the returned policy always passes.
func RequireAll(policies ...revtrust.Policy) revtrust.Policy {
	return revtrust.PolicyFunc(func(ctx context.Context, req revtrust.PolicyRequest) error {
		for i, p := range policies {
			if p == nil {
				continue
			}
			if err := p.Evaluate(ctx, req); err != nil {
				return fmt.Errorf("policy %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// RequireAny returns a policy that passes if at least one policy passes.
//
// All policies are evaluated until one succeeds. If all policies fail,
// the error includes messages from all failed policies.
// If no policies are provided, the returned policy fails with an error.
func RequireAny(policies ...revtrust.Policy) revtrust.Policy {
	return revtrust.PolicyFunc(func(ctx context.Context, req revtrust.PolicyRequest) error {
		var validPolicies []revtrust.Policy
		for _, p := range policies {
			if p != nil {
				validPolicies = append(validPolicies, p)
			}
		}

		if len(validPolicies) == 0 {
			return errors.New("policy: RequireAny requires at least one policy")
		}

		var errs []string
		for _, p := range validPolicies {
			if err := p.Evaluate(ctx, req); err != nil {
				errs = append(errs, err.Error())
				continue
			}
			return nil // At least one passed
		}

		return fmt.Errorf("policy: all %d policies failed: %s",
			len(validPolicies), strings.Join(errs, "; "))
	})
}
