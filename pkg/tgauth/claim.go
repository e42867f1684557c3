package tgauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Claim is an unverified Telegram login payload. Every field except hash
// takes part in the signature, so unknown fields are kept verbatim.
type Claim struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	PhotoURL  string
	AuthDate  time.Time
	Hash      string

	fields map[string]string
}

// ParseClaim decodes a login-widget JSON object. Numbers keep their literal
// text so the check string matches what Telegram signed.
func ParseClaim(raw []byte) (Claim, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return Claim{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		s, err := stringify(v)
		if err != nil {
			return Claim{}, fmt.Errorf("%w: field %q: %v", ErrMalformed, k, err)
		}
		fields[k] = s
	}
	return ClaimFromFields(fields), nil
}

// ClaimFromFields builds a Claim from already-flattened key/value pairs,
// e.g. a query string from the login redirect.
func ClaimFromFields(fields map[string]string) Claim {
	c := Claim{fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		c.fields[k] = v
	}

	c.ID, _ = strconv.ParseInt(c.fields["id"], 10, 64)
	c.FirstName = c.fields["first_name"]
	c.LastName = c.fields["last_name"]
	c.Username = c.fields["username"]
	c.PhotoURL = c.fields["photo_url"]
	c.Hash = c.fields["hash"]
	if ts, err := strconv.ParseInt(c.fields["auth_date"], 10, 64); err == nil {
		c.AuthDate = time.Unix(ts, 0).UTC()
	}
	return c
}

// Fields returns a copy of the raw payload fields, hash included.
func (c Claim) Fields() map[string]string {
	out := make(map[string]string, len(c.fields))
	for k, v := range c.fields {
		out[k] = v
	}
	return out
}

// DataCheckString is every field except hash as sorted key=value lines.
func (c Claim) DataCheckString() string {
	return DataCheckString(c.fields)
}

// FullName joins first and last name.
func (c Claim) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DataCheckString canonicalizes fields the way the Telegram login widget
// does before signing.
func DataCheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + fields[k]
	}
	return strings.Join(lines, "\n")
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case nil:
		return "", nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
