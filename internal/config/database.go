package config

import (
	"database/sql"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
)

var DB *sql.DB

// InitDB opens the audit database. With no DB_NAME it leaves DB nil and
// the audit log is disabled.
func InitDB(cfg *Config) {
	if !cfg.AuditEnabled() {
		log.Println("DB_NAME empty, audit log disabled")
		return
	}

	dsn := mysql.NewConfig()
	dsn.User = cfg.DBUser
	dsn.Passwd = cfg.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = cfg.DBHost + ":" + cfg.DBPort
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		log.Fatal("mysql config invalid: ", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("mysql unreachable: ", err)
	}

	DB = db
	log.Println("MySQL connected:", cfg.DBName)
}
