/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	"github.com/suparena/entitydao"
	"github.com/suparena/entitydao/config"
	"github.com/suparena/entitydao/datastore/ddb"
	daoerrors "github.com/suparena/entitydao/errors"
	"github.com/suparena/entitydao/logger"
	"github.com/suparena/entitydao/registry"
	"github.com/suparena/entitydao/tabledef"
)

const (
	actionInit          = "init"
	actionEnsureIndexes = "ensure-indexes"
	actionDrop          = "drop"
	actionCopy          = "copy"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configPath  = flag.String("config", "", "Configuration file (optional, ENTITYDAO_* env overrides)")
	schemaPath  = flag.String("schema", "", "Table definition file (.yaml, .yml or .json)")
	tableFlag   = flag.String("table", "", "Table to operate on; all tables in the schema when empty (init only)")
	actionFlag  = flag.String("action", actionInit, "One of init, ensure-indexes, drop, copy")
	sourceTable = flag.String("source-table", "", "Source table for copy")
)

// item is the schemaless model the CLI manages tables with.
type item = map[string]any

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		fmt.Println(entitydao.GetVersionInfo())
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "entitydao: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log := logger.Configure(cfg.Log.Level, cfg.Log.Format)

	if *schemaPath == "" {
		return daoerrors.NewValidationError("schema", "is required")
	}
	doc, err := tabledef.LoadFile(*schemaPath)
	if err != nil {
		return err
	}

	client, err := ddb.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return err
	}

	names := doc.Names()
	if *tableFlag != "" {
		names = []string{*tableFlag}
	} else if *actionFlag != actionInit {
		return daoerrors.NewValidationError("table", "is required for "+*actionFlag)
	}

	storage := entitydao.NewStorageManager(entitydao.WithStorageLogger(log))
	for _, name := range names {
		def, err := doc.Table(name)
		if err != nil {
			return err
		}
		dao, err := newDAO(client, cfg, log, cfg.TableName(name), def)
		if err != nil {
			return err
		}
		if err := storage.Register(name, dao); err != nil {
			return err
		}
	}

	if *actionFlag == actionInit {
		return storage.InitTables(ctx)
	}
	dao, err := entitydao.GetDAO[item](storage, names[0])
	if err != nil {
		return err
	}
	switch *actionFlag {
	case actionEnsureIndexes:
		return dao.EnsureIndexes(ctx)
	case actionDrop:
		return dao.DropTable(ctx)
	case actionCopy:
		if *sourceTable == "" {
			return daoerrors.NewValidationError("source-table", "is required for copy")
		}
		return dao.CopyTable(ctx, client, *sourceTable)
	default:
		return daoerrors.NewValidationError("action", "unknown action "+*actionFlag)
	}
}

func newDAO(client ddb.Client, cfg *config.Config, log zerolog.Logger, tableName string, def tabledef.Table) (*ddb.DynamodbDAO[item], error) {
	schema := def.Schema()
	hashKey, ok := schema.HashKey()
	if !ok {
		return nil, daoerrors.NewValidationError(tableName, "no hash key")
	}

	opts := append(ddb.OptionsFromConfig(cfg), ddb.WithLogger(log))
	if tp := def.Throughput(); tp != nil {
		opts = append(opts, ddb.WithThroughput(aws.ToInt64(tp.ReadCapacityUnits), aws.ToInt64(tp.WriteCapacityUnits)))
	}

	return ddb.New(client, ddb.Config[item]{
		TableName:  tableName,
		Schema:     schema,
		Fields:     &registry.FieldDescriptor{ID: hashKey},
		EntityName: tableName,
	}, opts...)
}
