package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Index   bool
	Match   bool
	Matches bool
	Apply   bool
	Store   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Index = boolEnv("GRAFT_DEBUG_INDEX")
	d.Match = boolEnv("GRAFT_DEBUG_MATCH")
	d.Matches = boolEnv("GRAFT_DEBUG_MATCHES")
	d.Apply = boolEnv("GRAFT_DEBUG_APPLY")
	d.Store = boolEnv("GRAFT_DEBUG_STORE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Index() bool {
	return d.Index
}
func Match() bool {
	return d.Match
}
func Matches() bool {
	return d.Matches
}
func Apply() bool {
	return d.Apply
}
func Store() bool {
	return d.Store
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
