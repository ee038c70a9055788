package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
)

var errInvalidKey = errors.New("cache key must not be empty")

// ResultCache memoizes analysis results by content key.
type ResultCache interface {
	Get(ctx context.Context, key string) (analysis.Result, bool, error)
	Set(ctx context.Context, key string, result analysis.Result) error
	Delete(ctx context.Context, key string) error
}

// Key hashes the normalised ingredient list together with the sorted sensitivities, so the
// same label scanned twice by the same user maps to the same entry.
func Key(ingredients []string, sensitivities analysis.SensitivitySet) string {
	h := sha256.New()
	for _, ing := range ingredients {
		ing = strings.ToLower(strings.Join(strings.Fields(ing), " "))
		if ing == "" {
			continue
		}
		h.Write([]byte(ing))
		h.Write([]byte{0x1f})
	}
	h.Write([]byte{0x1e})
	h.Write([]byte(strings.Join(sensitivities.Sorted(), ",")))
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup reads key from c and treats an entry computed against another reference version
// as a miss.
func Lookup(ctx context.Context, c ResultCache, key, version string) (analysis.Result, bool, error) {
	res, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return analysis.Result{}, false, err
	}
	if res.ReferenceVersion != version {
		return analysis.Result{}, false, nil
	}
	return res, true, nil
}
