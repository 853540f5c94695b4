package main

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type config struct {
	HTTPListen     string
	DBDriver       engineKind
	DBPath         string
	DBDSN          string
	DBMaxOpenConns int
	APIToken       string
	SearchRowLimit int
	SearchMaxRows  int
	SearchSort     string
	LogLevel       string
	LogPretty      bool
}

// engineKind names the SQL engine behind the gorm handle.
type engineKind string

const (
	engineSQLite   engineKind = "sqlite"
	engineMySQL    engineKind = "mysql"
	enginePostgres engineKind = "postgres"
)

type permissionScope int

const (
	scopeAll permissionScope = iota
	scopeOwn
)

func (p permissionScope) String() string {
	if p == scopeOwn {
		return "own"
	}
	return "all"
}

type searchRequest struct {
	Query    string
	Reverse  bool
	Wildcard bool
	Scope    permissionScope
	SortKey  string
	RowLimit int
	UserID   int64
}

type searchTokens struct {
	Forward          string
	Reverse          string
	ReverseAttempted bool
}

// zoneRow is one owner assignment of a domain as returned by the lookup join.
type zoneRow struct {
	DomainID      int64
	DomainName    string
	DomainType    string
	ZoneID        sql.NullInt64
	OwnerID       sql.NullInt64
	OwnerUsername string
	OwnerFullName string
	RecordCount   sql.NullInt64
}

type aggregatedZone struct {
	DomainID    int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	ZoneID      *int64 `json:"zone_id"`
	Owners      string `json:"owner"`
	OwnerNames  string `json:"fullname"`
	RecordCount *int64 `json:"count_records"`
}

type searchResponse struct {
	Zones            []aggregatedZone `json:"zones"`
	ReverseAttempted bool             `json:"reverse_attempted"`
}

type createUserRequest struct {
	Username     string `json:"username"`
	FullName     string `json:"fullname"`
	Email        string `json:"email"`
	ViewAllZones bool   `json:"view_all_zones"`
}

type createDomainRequest struct {
	Name   string  `json:"name"`
	Type   string  `json:"type,omitempty"`
	Owners []int64 `json:"owners,omitempty"`
}

type createRecordRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     uint32 `json:"ttl,omitempty"`
	Prio    int    `json:"prio,omitempty"`
}

type domainModel struct {
	ID     int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Master *string `gorm:"size:128" json:"master,omitempty"`
	Type   string  `gorm:"size:6;not null" json:"type"`
}

type recordModel struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	DomainID int64   `gorm:"index;not null" json:"domain_id"`
	Name     string  `gorm:"size:255;not null" json:"name"`
	Type     *string `gorm:"size:10" json:"type"`
	Content  string  `gorm:"not null" json:"content"`
	TTL      uint32  `gorm:"column:ttl;not null" json:"ttl"`
	Prio     int     `gorm:"not null" json:"prio"`
	Disabled bool    `gorm:"not null" json:"disabled"`
}

type userModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	FullName     string `gorm:"column:fullname;size:255;not null" json:"fullname"`
	Email        string `gorm:"size:255;not null" json:"email"`
	Active       bool   `gorm:"not null" json:"active"`
	ViewAllZones bool   `gorm:"not null" json:"view_all_zones"`
}

type zoneOwnerModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	DomainID int64  `gorm:"index;not null" json:"domain_id"`
	Owner    int64  `gorm:"column:owner;index;not null" json:"owner"`
	Comment  string `gorm:"size:1024;not null" json:"comment"`
}

func (domainModel) TableName() string {
	return "domains"
}

func (recordModel) TableName() string {
	return "records"
}

func (userModel) TableName() string {
	return "users"
}

func (zoneOwnerModel) TableName() string {
	return "zones"
}

type persistence struct {
	db     *gorm.DB
	engine engineKind
}

type server struct {
	cfg     config
	persist *persistence
	search  *zoneSearcher
	log     zerolog.Logger
	start   time.Time
}
