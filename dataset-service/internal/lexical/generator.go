// Package lexical generates synthetic identity fields from fixed
// vocabularies. Every draw goes through the generator's own *rand.Rand, so a
// seeded source gives reproducible output.
package lexical

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	digitChars    = "0123456789"
	alnumChars    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
	passwordChars = alnumChars + "!@#$%^&*()"

	emailLocalLen = 8

	// PhonePrefix is the country code plus mobile prefix of generated numbers.
	PhonePrefix    = "+614"
	phoneDigitsLen = 8
)

// Generator produces random identity fields.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator drawing from rng.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Username generates <Adjective><Noun><2 digits>, e.g. "BraveRocket07".
// Collisions within a batch are possible.
func (g *Generator) Username() string {
	var b strings.Builder
	b.WriteString(g.pick(adjectives))
	b.WriteString(g.pick(nouns))
	b.WriteByte(g.pickByte(digitChars))
	b.WriteByte(g.pickByte(digitChars))
	return b.String()
}

// Password generates length characters drawn uniformly from the 72-character
// password alphabet. No character class is guaranteed.
func (g *Generator) Password(length int) string {
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = g.pickByte(passwordChars)
	}
	return string(buf)
}

// Email generates 8 alphanumerics at one of the common provider domains.
func (g *Generator) Email() string {
	local := make([]byte, emailLocalLen)
	for i := range local {
		local[i] = g.pickByte(alnumChars)
	}
	return string(local) + "@" + g.pick(emailDomains)
}

// Address generates a street address such as "Unit 4, 17 Maple Loop".
// A third of addresses carry a unit, a third an apartment, a third neither.
func (g *Generator) Address() string {
	var b strings.Builder

	number := g.between(1, 30)
	switch g.rng.IntN(3) {
	case 0:
	case 1:
		b.WriteString("Unit ")
		b.WriteString(strconv.Itoa(number))
		b.WriteString(", ")
	case 2:
		b.WriteString("Apartment ")
		b.WriteString(strconv.Itoa(number))
		b.WriteString(", ")
	}

	b.WriteString(strconv.Itoa(g.between(1, 100)))
	b.WriteByte(' ')
	b.WriteString(g.pick(streetNames))
	b.WriteByte(' ')
	b.WriteString(g.pick(streetTypes))
	return b.String()
}

// PhoneNumber generates an Australian style mobile number: +614 and 8 digits.
func (g *Generator) PhoneNumber() string {
	buf := make([]byte, 0, len(PhonePrefix)+phoneDigitsLen)
	buf = append(buf, PhonePrefix...)
	for range phoneDigitsLen {
		buf = append(buf, g.pickByte(digitChars))
	}
	return string(buf)
}

// FirstName draws a first name.
func (g *Generator) FirstName() string {
	return g.pick(firstNames)
}

// LastName draws a last name, independently of the first name.
func (g *Generator) LastName() string {
	return g.pick(lastNames)
}

// between returns a uniform int in [lo, hi).
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo)
}

func (g *Generator) pick(s []string) string {
	return s[g.rng.IntN(len(s))]
}

func (g *Generator) pickByte(s string) byte {
	return s[g.rng.IntN(len(s))]
}
