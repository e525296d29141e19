package gqlopgen

import "strings"

// Bucket is the module folder an operation is written to.
type Bucket string

const (
	BucketAdmin        Bucket = "admin"
	BucketAuth         Bucket = "auth"
	BucketNotification Bucket = "notification"
	BucketMessage      Bucket = "message"
	BucketProduction   Bucket = "production"
	BucketSample       Bucket = "sample"
	BucketOrder        Bucket = "order"
	BucketCollection   Bucket = "collection"
	BucketCompany      Bucket = "company"
	BucketUser         Bucket = "user"
	BucketFile         Bucket = "file"
	BucketAnalytics    Bucket = "analytics"
	BucketMisc         Bucket = "misc"
)

// Matcher tests a lower-cased field name.
type Matcher func(name string) bool

// Rule assigns Bucket to names Match accepts.
type Rule struct {
	Bucket Bucket
	Match  Matcher
}

// Contains matches names containing any of the keywords.
func Contains(keywords ...string) Matcher {
	return func(name string) bool {
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return true
			}
		}
		return false
	}
}

// HasSuffix matches names ending with any of the suffixes.
func HasSuffix(suffixes ...string) Matcher {
	return func(name string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) {
				return true
			}
		}
		return false
	}
}

// Equals matches names equal to any of the values.
func Equals(values ...string) Matcher {
	return func(name string) bool {
		for _, v := range values {
			if name == v {
				return true
			}
		}
		return false
	}
}

// Any matches names accepted by at least one of the matchers.
func Any(matchers ...Matcher) Matcher {
	return func(name string) bool {
		for _, m := range matchers {
			if m(name) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the rule table generated output is laid out with.
// Reordering it moves existing files between folders.
var DefaultRules = []Rule{
	{BucketAdmin, Contains("admin")},
	{BucketAuth, Any(
		Contains("login", "logout", "signup", "register", "password", "refreshtoken", "auth"),
		HasSuffix("verifyemail", "resendverification"),
	)},
	{BucketNotification, Contains("notification")},
	{BucketMessage, Contains("message", "conversation", "chat")},
	{BucketProduction, Contains("production", "workshop", "qualitycontrol")},
	{BucketSample, Contains("sample")},
	{BucketOrder, Contains("order")},
	{BucketCollection, Contains("collection")},
	{BucketCompany, Contains("company", "companies")},
	{BucketUser, Any(Contains("user", "profile"), Equals("me"))},
	{BucketFile, Contains("upload", "file", "image", "attachment")},
	{BucketAnalytics, Any(Contains("analytics", "dashboard", "report"), HasSuffix("stats"))},
}

// Classifier maps field names to buckets with an ordered rule list; the
// first matching rule wins.
type Classifier struct {
	rules    []Rule
	fallback Bucket
}

// NewClassifier returns a classifier over rules, with BucketMisc as the
// bucket for names no rule matches.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules, fallback: BucketMisc}
}

// Classify returns the bucket for a field name. It never fails.
func (c *Classifier) Classify(fieldName string) Bucket {
	name := strings.ToLower(fieldName)
	for _, r := range c.rules {
		if r.Match(name) {
			return r.Bucket
		}
	}
	return c.fallback
}

var defaultClassifier = NewClassifier(DefaultRules)

// Classify maps fieldName with DefaultRules.
func Classify(fieldName string) Bucket {
	return defaultClassifier.Classify(fieldName)
}
