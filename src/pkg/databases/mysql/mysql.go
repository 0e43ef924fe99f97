package mysql

import (
	"errors"
	"fmt"
	"time"

	"wallet-service/src/pkg/log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

// DBInterface hides the concrete sqlx handle so repositories stay mockable.
type DBInterface interface {
	GetDB() (*sqlx.DB, error)
}

type Database struct {
	db *sqlx.DB
}

func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		v.GetString("mysql.user"),
		v.GetString("mysql.password"),
		v.GetString("mysql.host"),
		v.GetInt("mysql.port"),
		v.GetString("mysql.database"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		logger.Error("mysql", fmt.Sprintf("failed to connect: %v", err), "InitConnection", "")
		return &Database{}, err
	}

	db.SetMaxOpenConns(v.GetInt("mysql.max_open_conns"))
	db.SetMaxIdleConns(v.GetInt("mysql.max_idle_conns"))
	db.SetConnMaxLifetime(time.Duration(v.GetInt("mysql.conn_max_lifetime_minutes")) * time.Minute)

	logger.Info("mysql", "connected to database", "InitConnection", v.GetString("mysql.database"))
	return &Database{db: db}, nil
}

func (d *Database) GetDB() (*sqlx.DB, error) {
	if d.db == nil {
		return nil, errors.New("database connection is not initialized")
	}
	return d.db, nil
}
