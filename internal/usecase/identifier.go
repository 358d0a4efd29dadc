package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"fieldsales-backend/internal/config"
	"fieldsales-backend/internal/domain"
)

// ExistsFunc reports whether a candidate identifier is already taken in the
// owning table. Implementations backed by the database may atomically claim
// the candidate as part of the check.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// IdentifierGenerator produces collision-free human-readable display IDs.
// Collisions across concurrent creations are resolved by retry-on-conflict
// rather than locking; the retry cap keeps failure prompt under a saturated
// random space.
type IdentifierGenerator struct {
	maxAttempts int
	codewords   []string
	numberSpace int
	now         func() time.Time
}

// defaultCodewords is the collector token vocabulary. Short, readable, easy
// to say over a phone.
var defaultCodewords = []string{
	"FALCON", "TIGER", "OTTER", "RAVEN", "BISON", "COBRA", "DINGO", "EAGLE",
	"GECKO", "HERON", "IBEX", "JAGUAR", "KOALA", "LYNX", "MARMOT", "NEWT",
	"OCELOT", "PANDA", "QUOKKA", "ROBIN", "SABLE", "TAPIR", "URCHIN", "VIPER",
	"WOMBAT", "YAK", "ZEBRA", "BADGER", "CIVET", "DRAKE",
}

func NewIdentifierGenerator(cfg config.IdentifierConfig) *IdentifierGenerator {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 20
	}
	return &IdentifierGenerator{
		maxAttempts: attempts,
		codewords:   defaultCodewords,
		numberSpace: 1000,
		now:         time.Now,
	}
}

// BranchCode builds a date-stamped identifier: YYYYMMDD-NAME-###.
func (g *IdentifierGenerator) BranchCode(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	prefix := g.now().Format("20060102") + "-" + sanitizeToken(name)
	return g.generate(ctx, prefix, nil, exists)
}

// CollectorCode builds a codeword identifier: PFX-ANIMAL-### where PFX is
// derived from the branch name.
func (g *IdentifierGenerator) CollectorCode(ctx context.Context, branchName string, exists ExistsFunc) (string, error) {
	prefix := branchPrefix(branchName)
	return g.generate(ctx, prefix, g.codewords, exists)
}

// generate shares the retry/uniqueness contract of both variants; only the
// token vocabulary differs.
func (g *IdentifierGenerator) generate(ctx context.Context, prefix string, vocabulary []string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := prefix
		if len(vocabulary) > 0 {
			word, err := pickRandom(len(vocabulary))
			if err != nil {
				return "", err
			}
			candidate += "-" + vocabulary[word]
		}
		n, err := pickRandom(g.numberSpace)
		if err != nil {
			return "", err
		}
		candidate += fmt.Sprintf("-%03d", n)

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domain.ErrGenerationExhausted
}

func pickRandom(space int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(space)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// sanitizeToken uppercases and strips everything but letters and digits so a
// branch name like "Kota Tua 2" becomes "KOTATUA2".
func sanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

// branchPrefix takes the first three letters of the sanitized branch name.
func branchPrefix(name string) string {
	tok := sanitizeToken(name)
	if len(tok) > 3 {
		tok = tok[:3]
	}
	return tok
}
