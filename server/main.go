/******************************************************************************
 *
 *  Description :
 *
 *    Setup & initialization.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"runtime"

	"github.com/tinode/jsonco"

	_ "github.com/roomery/chat/server/db"
	"github.com/roomery/chat/server/logs"
	"github.com/roomery/chat/server/store"
)

// API version.
const VERSION = "0.1"

// Build timestamp set by the compiler.
var buildstamp = ""

var globals struct {
	hub         *Hub
	statsUpdate chan *varUpdate
}

type configType struct {
	// Address and port to listen on.
	Listen string `json:"listen"`
	// Path for exposing runtime stats through expvar, disabled if empty.
	Expvar string `json:"expvar"`
	// Path for exposing the Prometheus scrape endpoint, disabled if empty.
	PromMetrics string `json:"prom_metrics"`
	// Metric name prefix for the Prometheus endpoint.
	PromNamespace string `json:"prom_namespace"`
	// URL path for exposing runtime profiles through pprof, disabled if empty.
	PprofUrl string `json:"pprof_url"`
	// Unique id of this process for snowflake, 0..1023.
	WorkerId int `json:"worker_id"`
	// Configuration of the persistent storage.
	StoreConfig json.RawMessage `json:"store_config"`
	// TLS configuration.
	Tls json.RawMessage `json:"tls"`
}

func main() {
	executable, _ := os.Executable()
	logs.Info.Printf("Server v%s:%s pid=%d started with processes: %d",
		VERSION, buildstamp, os.Getpid(), runtime.GOMAXPROCS(runtime.NumCPU()))

	var configfile = flag.String("config", "./roomery.conf", "Path to config file.")
	var listenOn = flag.String("listen", "", "Override address and port to listen on.")
	var initDb = flag.Bool("init_db", false, "Create the database schema and exit.")
	var resetDb = flag.Bool("reset_db", false, "Drop an existing database before creating the schema; implies -init_db.")
	flag.Parse()

	logs.Info.Printf("Using config from '%s' (%s)", *configfile, executable)

	var config configType
	if file, err := os.Open(*configfile); err != nil {
		logs.Error.Fatal("Failed to read config file: ", err)
	} else {
		// jsonco strips comments from the config file.
		jr := jsonco.New(file)
		if err = json.NewDecoder(jr).Decode(&config); err != nil {
			logs.Error.Fatal("Failed to parse config file: ", err)
		}
		file.Close()
	}

	if *listenOn != "" {
		config.Listen = *listenOn
	}

	if *initDb || *resetDb {
		if err := store.Store.InitDb(config.StoreConfig, *resetDb); err != nil {
			logs.Error.Fatal("Failed to initialize the database: ", err)
		}
		logs.Info.Println("Database", store.Store.GetAdapterName(), "initialized")
		store.Store.Close()
		return
	}

	err := store.Store.Open(config.WorkerId, config.StoreConfig)
	if err != nil {
		logs.Error.Fatal("Failed to connect to DB: ", err)
	}
	logs.Info.Println("DB adapter:", store.Store.GetAdapterName())
	defer func() {
		store.Store.Close()
		logs.Info.Println("Closed database connection(s)")
	}()

	globals.hub = newHub()

	mux := http.NewServeMux()
	registerRoutes(mux)

	if config.PromNamespace == "" {
		config.PromNamespace = "roomery"
	}
	statsInit(mux, config.Expvar)
	promInit(mux, config.PromMetrics, config.PromNamespace)
	servePprof(mux, config.PprofUrl)

	if err := listenAndServe(config.Listen, mux, config.Tls, signalHandler()); err != nil {
		logs.Error.Fatal(err)
	}
	logs.Info.Println("All done, good bye")
}
