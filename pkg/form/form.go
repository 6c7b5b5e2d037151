// Package form builds flat, ordered parameter lists and encodes them the way
// the Typetalk API expects for query strings and
// application/x-www-form-urlencoded bodies.
//
// Unlike url.Values, Params keeps keys in insertion order and escapes with
// JavaScript encodeURIComponent rules: spaces become %20, never '+'.
package form

import (
	"io"
	"strconv"
	"strings"
)

// ContentType is the media type of an encoded Params body.
const ContentType = "application/x-www-form-urlencoded"

// Param is a single key/value pair.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of parameters. The zero value is ready to use.
type Params []Param

// Add appends a key/value pair.
func (p *Params) Add(key, value string) {
	*p = append(*p, Param{Key: key, Value: value})
}

// AddInt appends an integer value.
func (p *Params) AddInt(key string, value int64) {
	p.Add(key, strconv.FormatInt(value, 10))
}

// AddBool appends a boolean value as "true" or "false".
func (p *Params) AddBool(key string, value bool) {
	p.Add(key, strconv.FormatBool(value))
}

// AddIndexed appends values under keys of the form key[0], key[1], ...
func (p *Params) AddIndexed(key string, values []string) {
	for i, v := range values {
		p.Add(key+"["+strconv.Itoa(i)+"]", v)
	}
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p)
}

// Get returns the first value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Encode renders the parameters as key=value pairs joined by '&'.
// Both keys and values are escaped. An empty list encodes to "".
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(kv.Key))
		b.WriteByte('=')
		b.WriteString(Escape(kv.Value))
	}
	return b.String()
}

// Reader returns the encoded parameters as a body reader, or nil when the
// list is empty so callers send no body at all.
func (p Params) Reader() io.Reader {
	if len(p) == 0 {
		return nil
	}
	return strings.NewReader(p.Encode())
}

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes s using encodeURIComponent semantics: ASCII letters,
// digits and -_.!~*'() are left as is, every other byte of the UTF-8
// encoding becomes %XX.
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
	}
	return string(buf)
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
