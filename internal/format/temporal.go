package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vjeantet/jodaTime"

	"github.com/soltixdb/reportkit/internal/utils"
)

type temporalFormatter struct{}

// check also rejects strings that are not ISO dates.
func (temporalFormatter) check(_ Config, v interface{}) invalidKind {
	if kind := checkCommon(v); kind != validValue {
		return kind
	}
	switch val := v.(type) {
	case time.Time:
		return validValue
	case string:
		if _, ok := utils.ParseDate(val, time.UTC); ok {
			return validValue
		}
	}
	return invalidOther
}

func (temporalFormatter) render(d *Dispatcher, cfg Config, v interface{}) string {
	var t time.Time
	switch val := v.(type) {
	case time.Time:
		t = val
	case string:
		t, _ = utils.ParseDate(val, d.loc)
	}
	return cfg.Common.Prefix + FormatDate(t.In(d.loc), cfg.Temporal.Format) + cfg.Common.Suffix
}

// FormatDate renders t with a date-fns style pattern such as "MM/dd/yyyy" or
// "yyyy-MM-dd'T'HH:mm". Text between single quotes is copied verbatim and ''
// yields a quote. Unknown letters are copied as-is.
//
// The pattern is rewritten into a Joda pattern: tokens both families share
// are left to jodaTime, the rest are rendered here and passed as quoted text.
func FormatDate(t time.Time, pattern string) string {
	return jodaTime.Format(toJoda(t, pattern), t)
}

func toJoda(t time.Time, pattern string) string {
	var b strings.Builder
	var lit strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				lit.WriteByte('\'')
				i += 2
				continue
			}
			i++
			for i < len(pattern) {
				if pattern[i] == '\'' {
					if i+1 < len(pattern) && pattern[i+1] == '\'' {
						lit.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				lit.WriteByte(pattern[i])
				i++
			}
			continue
		}

		if !isPatternLetter(c) {
			lit.WriteByte(c)
			i++
			continue
		}

		n := 1
		for i+n < len(pattern) && pattern[i+n] == c {
			n++
		}
		if c == 'd' && n == 1 && i+1 < len(pattern) && pattern[i+1] == 'o' {
			lit.WriteString(ordinal(t.Day()))
			i += 2
			continue
		}
		if token, ok := jodaToken(c, n); ok {
			writeQuoted(&b, lit.String())
			lit.Reset()
			b.WriteString(token)
		} else {
			lit.WriteString(renderToken(t, c, n))
		}
		i += n
	}
	writeQuoted(&b, lit.String())
	return b.String()
}

// jodaToken maps a date-fns token run to the Joda token rendering it the
// same way
func jodaToken(c byte, n int) (string, bool) {
	switch c {
	case 'y', 'u':
		if n <= 4 {
			return strings.Repeat("y", n), true
		}
	case 'M', 'L':
		if n <= 4 {
			return strings.Repeat("M", n), true
		}
	case 'E':
		if n <= 4 {
			return strings.Repeat("E", n), true
		}
	case 'd', 'H', 'h', 'K', 'k', 'm', 's':
		if n <= 2 {
			return strings.Repeat(string(c), n), true
		}
	case 'a':
		return "a", true
	}
	return "", false
}

// writeQuoted appends text as Joda literals. A quote is written as '' outside
// any quoted run since jodaTime ends a run at the first quote.
func writeQuoted(b *strings.Builder, text string) {
	for len(text) > 0 {
		if text[0] == '\'' {
			b.WriteString("''")
			text = text[1:]
			continue
		}
		end := strings.IndexByte(text, '\'')
		if end < 0 {
			end = len(text)
		}
		b.WriteByte('\'')
		b.WriteString(text[:end])
		b.WriteByte('\'')
		text = text[end:]
	}
}

func isPatternLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func pad(v, width int) string {
	return fmt.Sprintf("%0*d", width, v)
}

// renderToken renders the tokens jodaTime has no equivalent for
func renderToken(t time.Time, c byte, n int) string {
	switch c {
	case 'y', 'u':
		return pad(t.Year(), n)
	case 'M', 'L':
		return t.Format("January")[:1]
	case 'E':
		return t.Format("Monday")[:1]
	case 'd':
		return pad(t.Day(), n)
	case 'D':
		return pad(t.YearDay(), n)
	case 'i':
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return pad(wd, n)
	case 'Q', 'q':
		q := (int(t.Month())-1)/3 + 1
		if n >= 3 {
			return "Q" + strconv.Itoa(q)
		}
		return pad(q, n)
	case 'H':
		return pad(t.Hour(), n)
	case 'k':
		h := t.Hour()
		if h == 0 {
			h = 24
		}
		return pad(h, n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, n)
	case 'K':
		return pad(t.Hour()%12, n)
	case 'm':
		return pad(t.Minute(), n)
	case 's':
		return pad(t.Second(), n)
	case 'S':
		if n > 9 {
			n = 9
		}
		return pad(t.Nanosecond(), 9)[:n]
	case 'X':
		_, offset := t.Zone()
		if offset == 0 {
			return "Z"
		}
		return renderOffset(t, n)
	case 'x':
		return renderOffset(t, n)
	case 'T':
		return strconv.FormatInt(t.UnixMilli(), 10)
	case 't':
		return strconv.FormatInt(t.Unix(), 10)
	case 'P':
		switch n {
		case 1:
			return FormatDate(t, "MM/dd/yyyy")
		case 2:
			return FormatDate(t, "MMM d, yyyy")
		default:
			return FormatDate(t, "MMMM do, yyyy")
		}
	case 'p':
		return FormatDate(t, "h:mm a")
	}
	return strings.Repeat(string(c), n)
}

func renderOffset(t time.Time, n int) string {
	switch n {
	case 1:
		return t.Format("-07")
	case 2:
		return t.Format("-0700")
	default:
		return t.Format("-07:00")
	}
}

func ordinal(day int) string {
	suffix := "th"
	switch day % 100 {
	case 11, 12, 13:
	default:
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(day) + suffix
}
