package signal_handle

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/All23tor/DiscoBD/discobd"
)

var IsStopped = false

// SignalHandlerTh blocks until SIGINT, stops request intake, flushes
// the buffer pool through the database handle and notifies the main
// thread that shutdown finished.
func SignalHandlerTh(db *discobd.DiscoBD, exitNotifyCh *chan bool) {
	sigChan := make(chan os.Signal, 1)
	// receive SIGINT only
	signal.Ignore()
	signal.Notify(sigChan, syscall.SIGINT)

	// block until receive SIGINT
	<-sigChan

	// stop handle request
	IsStopped = true

	// every dirty frame must reach its sector files before exit
	if err := db.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	// notify that shutdown operation finished to main thread
	*exitNotifyCh <- true
}
