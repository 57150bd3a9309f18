package shared

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taxprep/backend/pkg/slug"
)

// maxSlugAttempts bounds the suffix search in ResolveSlug
const maxSlugAttempts = 50

// SlugTaken reports whether candidate is already used by another record
type SlugTaken func(ctx context.Context, candidate string) (bool, error)

// ResolveSlug picks the slug for a record. An explicit slug is normalized and must be
// free; otherwise one is derived from source and suffixed (-2, -3, ...) until free.
func ResolveSlug(ctx context.Context, explicit, source string, taken SlugTaken) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		s := slug.Make(explicit)
		if s == "" {
			return "", NewDomainError(CodeInvalidInput, "Slug must contain letters or digits")
		}
		used, err := taken(ctx, s)
		if err != nil {
			return "", err
		}
		if used {
			return "", NewDomainError(CodeAlreadyExists, fmt.Sprintf("Slug %q is already in use", s))
		}
		return s, nil
	}

	base := slug.Make(source)
	if base == "" {
		return "", NewDomainError(CodeInvalidInput, "Cannot derive a slug: title has no letters or digits")
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}
	return "", NewDomainError(CodeAlreadyExists, fmt.Sprintf("No free slug left for %q", base))
}

// SlugChecker is the part of a SlugRepository ResolveSlug needs
type SlugChecker interface {
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// SlugTakenIn checks candidates against repo, ignoring the record excludeID
func SlugTakenIn(repo SlugChecker, excludeID uuid.UUID) SlugTaken {
	return func(ctx context.Context, candidate string) (bool, error) {
		return repo.ExistsBySlug(ctx, candidate, excludeID)
	}
}

// UpdateSlug keeps current unless a different explicit slug is requested.
// Renaming a record never changes its slug on its own so published links keep working.
func UpdateSlug(ctx context.Context, current, explicit string, taken SlugTaken) (string, error) {
	if strings.TrimSpace(explicit) == "" || slug.Make(explicit) == current {
		return current, nil
	}
	return ResolveSlug(ctx, explicit, "", taken)
}
