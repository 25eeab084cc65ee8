package builtin

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand/v2"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Func computes a placeholder value from its string arguments.
type Func func(args []string) (string, error)

type Registry struct {
	funcs map[string]Func
	now   func() time.Time
	rand  *rand.Rand
}

type Option func(*Registry)

// WithClock sets the time source for now, timestamp and date.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithSeed makes random and randomString deterministic.
func WithSeed(seed uint64) Option {
	return func(r *Registry) {
		r.rand = rand.New(rand.NewPCG(seed, seed))
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["now"] = r.funcNow
	r.funcs["timestamp"] = r.funcTimestamp
	r.funcs["timestampMs"] = r.funcTimestampMs
	r.funcs["date"] = r.funcDate
	r.funcs["uuid"] = funcUUID
	r.funcs["random"] = r.funcRandom
	r.funcs["randomString"] = r.funcRandomString
	r.funcs["base64"] = unary(func(s string) (string, error) {
		return base64.StdEncoding.EncodeToString([]byte(s)), nil
	})
	r.funcs["base64Decode"] = unary(func(s string) (string, error) {
		decoded, err := base64.StdEncoding.DecodeString(s)
		return string(decoded), err
	})
	r.funcs["md5"] = unary(func(s string) (string, error) {
		hash := md5.Sum([]byte(s))
		return hex.EncodeToString(hash[:]), nil
	})
	r.funcs["sha256"] = unary(func(s string) (string, error) {
		hash := sha256.Sum256([]byte(s))
		return hex.EncodeToString(hash[:]), nil
	})
	r.funcs["urlEncode"] = unary(func(s string) (string, error) {
		return url.QueryEscape(s), nil
	})
	r.funcs["urlDecode"] = unary(url.QueryUnescape)
	r.funcs["upper"] = unary(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	r.funcs["lower"] = unary(func(s string) (string, error) {
		return strings.ToLower(s), nil
	})
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// IsCall reports whether expr has the shape of a function call.
func IsCall(expr string) bool {
	return funcCallPattern.MatchString(expr)
}

// Call evaluates expr, e.g. `base64("user:pass")`. The boolean is false when
// expr is not a call to a registered function.
func (r *Registry) Call(expr string) (string, bool, error) {
	matches := funcCallPattern.FindStringSubmatch(expr)
	if matches == nil {
		return "", false, nil
	}

	name := matches[1]
	argsStr := matches[2]

	fn, ok := r.funcs[name]
	if !ok {
		return "", false, nil
	}

	var args []string
	if strings.TrimSpace(argsStr) != "" {
		args = parseArgs(argsStr)
	}

	result, err := fn(args)
	if err != nil {
		return "", true, fmt.Errorf("%s(): %w", name, err)
	}
	return result, true, nil
}

func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !inQuote && (ch == '"' || ch == '\'') {
			inQuote = true
			quoteChar = ch
		} else if inQuote && ch == quoteChar {
			inQuote = false
			quoteChar = 0
		} else if !inQuote && ch == ',' {
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		} else {
			current.WriteByte(ch)
		}
	}

	args = append(args, strings.TrimSpace(current.String()))
	return args
}

func unary(fn func(string) (string, error)) Func {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return fn(args[0])
	}
}

func intArg(args []string, i int, name string, defaultVal int) (int, error) {
	if len(args) <= i {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s argument %q is not a valid integer", name, args[i])
	}
	return v, nil
}

func (r *Registry) funcNow(_ []string) (string, error) {
	return r.now().UTC().Format(time.RFC3339), nil
}

func (r *Registry) funcTimestamp(_ []string) (string, error) {
	return strconv.FormatInt(r.now().Unix(), 10), nil
}

func (r *Registry) funcTimestampMs(_ []string) (string, error) {
	return strconv.FormatInt(r.now().UnixMilli(), 10), nil
}

func (r *Registry) funcDate(args []string) (string, error) {
	format := "2006-01-02"
	if len(args) >= 1 && args[0] != "" {
		format = args[0]
	}
	return r.now().UTC().Format(format), nil
}

func funcUUID(_ []string) (string, error) {
	return uuid.NewString(), nil
}

func (r *Registry) intN(n int) int {
	if r.rand != nil {
		return r.rand.IntN(n)
	}
	return rand.IntN(n)
}

func (r *Registry) funcRandom(args []string) (string, error) {
	lo, err := intArg(args, 0, "min", 0)
	if err != nil {
		return "", err
	}
	hi, err := intArg(args, 1, "max", 100)
	if err != nil {
		return "", err
	}
	if hi < lo {
		return "", fmt.Errorf("max %d is below min %d", hi, lo)
	}
	if (lo < 0 && hi >= math.MaxInt+lo) || (lo >= 0 && hi-lo == math.MaxInt) {
		return "", fmt.Errorf("range %d..%d is too wide", lo, hi)
	}
	return strconv.Itoa(r.intN(hi-lo+1) + lo), nil
}

const maxRandomStringLength = 4096

func (r *Registry) funcRandomString(args []string) (string, error) {
	length, err := intArg(args, 0, "length", 16)
	if err != nil {
		return "", err
	}
	if length < 0 || length > maxRandomStringLength {
		return "", fmt.Errorf("length %d is outside 0..%d", length, maxRandomStringLength)
	}
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[r.intN(len(charset))]
	}
	return string(result), nil
}
