package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/discobd"
	"github.com/All23tor/DiscoBD/server/signal_handle"
	"github.com/ant0ine/go-json-rest/rest"
	"github.com/ugorji/go/codec"
)

type QueryInput struct {
	Query string
}

type QueryOutput struct {
	Result []string
	Error  string
}

var db *discobd.DiscoBD

// executeQuery runs one line command against the shared handle and
// captures what it would have printed to the terminal.
func executeQuery(query string) ([]string, error) {
	out := new(bytes.Buffer)
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty query")
	}

	var err error
	switch words[0] {
	case "LOAD":
		if len(words) < 2 {
			return nil, fmt.Errorf("LOAD needs a table name")
		}
		err = db.LoadCSV(words[1])
	case "SELECT":
		if len(words) < 4 || words[1] != "*" || words[2] != "FROM" {
			return nil, fmt.Errorf("only SELECT * FROM <table> [WHERE <expr>] is supported")
		}
		if len(words) > 4 && words[4] == "WHERE" {
			clause := query[strings.Index(query, "WHERE")+len("WHERE"):]
			err = db.SelectAllWhere(out, words[3], clause)
		} else {
			err = db.SelectAll(out, words[3])
		}
	case "DELETE":
		if len(words) < 5 || words[1] != "FROM" || words[3] != "WHERE" {
			return nil, fmt.Errorf("only DELETE FROM <table> WHERE <expr> is supported")
		}
		clause := query[strings.Index(query, "WHERE")+len("WHERE"):]
		err = db.DeleteWhere(out, words[2], clause)
	case "INFO":
		err = db.DiskInfo(out)
	case "BUFFER":
		db.BufferManager().Print(out)
	default:
		return nil, fmt.Errorf("unknown command %s", words[0])
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = []string{}
	}
	return lines, nil
}

func postQuery(w rest.ResponseWriter, req *rest.Request) {
	if signal_handle.IsStopped {
		rest.Error(w, "Server is stopped", http.StatusGone)
		return
	}

	input := QueryInput{}
	err := req.DecodeJsonPayload(&input)
	if err != nil {
		rest.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if input.Query == "" {
		rest.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	results, err := executeQuery(input.Query)
	if err != nil {
		rest.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteJson(&QueryOutput{results, "SUCCESS"})
}

func postQueryMsgPack(w rest.ResponseWriter, req *rest.Request) {
	if signal_handle.IsStopped {
		http.Error(w.(http.ResponseWriter), "Server is stopped", http.StatusGone)
		return
	}

	input := QueryInput{}
	err := req.DecodeJsonPayload(&input)
	if err != nil {
		http.Error(w.(http.ResponseWriter), err.Error(), http.StatusBadRequest)
		return
	}
	if input.Query == "" {
		http.Error(w.(http.ResponseWriter), "Query is required", http.StatusBadRequest)
		return
	}

	results, err := executeQuery(input.Query)
	if err != nil {
		http.Error(w.(http.ResponseWriter), err.Error(), http.StatusBadRequest)
		return
	}

	var buf io.Writer = new(bytes.Buffer)
	var h codec.Handle = new(codec.MsgpackHandle)
	enc := codec.NewEncoder(buf, h)
	if err := enc.Encode(results); err != nil {
		http.Error(w.(http.ResponseWriter), err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.(http.ResponseWriter).Write(buf.(*bytes.Buffer).Bytes())
}

func main() {
	var err error
	db, err = discobd.OpenDiscoBD(common.DiskRootDirName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	exitNotifyCh := make(chan bool)
	go signal_handle.SignalHandlerTh(db, &exitNotifyCh)

	api := rest.NewApi()
	api.Use(rest.DefaultDevStack...)

	router, err := rest.MakeRouter(
		&rest.Route{HttpMethod: "POST", PathExp: "/Query", Func: postQuery},
		&rest.Route{HttpMethod: "POST", PathExp: "/QueryMsgPack", Func: postQueryMsgPack},
	)
	if err != nil {
		log.Fatal(err)
	}
	api.SetApp(router)

	go func() {
		log.Fatal(http.ListenAndServe(":8090", api.MakeHandler()))
	}()

	// wait for the signal handler to finish flushing
	<-exitNotifyCh
}
