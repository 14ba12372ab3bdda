package result

import (
	"fmt"
	"sync"

	"github.com/rs/xid"
	"github.com/zan8in/gologger"

	"github.com/sstimap/sstimap/pkg/log"
	"github.com/sstimap/sstimap/pkg/utils"
)

// Result is one confirmed injection finding.
type Result struct {
	ID       string
	Target   string
	Param    string
	Category string
	Plugin   string
	Severity string
	Payload  string
	Rendered string
	IsVul    bool
}

func New(target, param string) *Result {
	return &Result{
		ID:     xid.New().String(),
		Target: target,
		Param:  param,
	}
}

var printLock sync.Mutex

// PrintColorResultInfoConsole prints one finding line with the severity
// palette applied.
func (r *Result) PrintColorResultInfoConsole(number string) {
	printLock.Lock()
	defer printLock.Unlock()

	gologger.Print().Msgf("%s %s %s %s %s",
		log.LogColor.Time(number+" "+utils.GetNowDateTime()),
		log.LogColor.Vulner(r.Plugin),
		log.LogColor.GetColor(r.Severity, fmt.Sprintf("%-8v", r.Severity)),
		r.Target,
		log.LogColor.Title("param="+r.Param),
	)
}
