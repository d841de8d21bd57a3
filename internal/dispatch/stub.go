package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/pickbind/internal/binding"
)

// Stub text re-enters the dispatcher from a host binding. The command
// form is a plain call; the expression form hands its result back to the
// host.
const (
	stubCall       = "pickbind.execute("
	stubExprPrefix = "return "
)

// ComposeStub renders the invocation text bound on the host for a
// registered handler.
func ComposeStub(s binding.Session, id HandlerID, expr bool) string {
	call := fmt.Sprintf("%s%d, %d)", stubCall, s, id)
	if expr {
		return stubExprPrefix + call
	}
	return call
}

// ParseStub recovers the (session, id) pair from stub text. It reports
// ok=false for any text that is not a dispatcher stub, letting hosts fall
// through to their native command handling.
func ParseStub(invocation string) (binding.Session, HandlerID, bool) {
	text := strings.TrimSpace(invocation)
	text = strings.TrimPrefix(text, stubExprPrefix)
	if !strings.HasPrefix(text, stubCall) || !strings.HasSuffix(text, ")") {
		return 0, 0, false
	}

	inner := text[len(stubCall) : len(text)-1]
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	s, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return binding.Session(s), HandlerID(id), true
}
