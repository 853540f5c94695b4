package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations
var migrationsFS embed.FS

var errUserNotFound = errors.New("user not found")

func newPersistence(cfg config) (*persistence, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}

	if err := runMigrations(sqlDB, cfg.DBDriver); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &persistence{db: db, engine: cfg.DBDriver}, nil
}

func openDatabase(cfg config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case engineSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	case engineMySQL:
		dialector = mysql.Open(cfg.DBDSN)
	case enginePostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DBDSN,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("%w %q", errUnknownDriver, cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

func gooseDialect(engine engineKind) string {
	if engine == engineSQLite {
		return "sqlite3"
	}
	return string(engine)
}

func runMigrations(db *sql.DB, engine engineKind) error {
	dialect := gooseDialect(engine)

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations/"+dialect); err != nil {
		return err
	}
	return nil
}

func (p *persistence) close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *persistence) ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *persistence) createUser(ctx context.Context, req createUserRequest) (userModel, error) {
	u := userModel{
		Username:     strings.TrimSpace(req.Username),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		Active:       true,
		ViewAllZones: req.ViewAllZones,
	}
	if err := p.db.WithContext(ctx).Create(&u).Error; err != nil {
		return userModel{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (p *persistence) getUser(ctx context.Context, id int64) (userModel, error) {
	var u userModel
	err := p.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return userModel{}, errUserNotFound
	}
	if err != nil {
		return userModel{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// createDomain inserts the domain and one ownership row per owner in a single
// transaction. name must already be in ASCII form.
func (p *persistence) createDomain(ctx context.Context, name, domainType string, owners []int64) (domainModel, error) {
	d := domainModel{Name: name, Type: domainType}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&d).Error; err != nil {
			return fmt.Errorf("create domain: %w", err)
		}
		for _, owner := range owners {
			var n int64
			if err := tx.Model(&userModel{}).Where("id = ?", owner).Count(&n).Error; err != nil {
				return fmt.Errorf("lookup owner: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("owner %d: %w", owner, errUserNotFound)
			}
			if err := tx.Create(&zoneOwnerModel{DomainID: d.ID, Owner: owner}).Error; err != nil {
				return fmt.Errorf("assign owner: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domainModel{}, err
	}

	return d, nil
}

func (p *persistence) getDomain(ctx context.Context, id int64) (domainModel, bool, error) {
	var d domainModel
	err := p.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainModel{}, false, nil
	}
	if err != nil {
		return domainModel{}, false, fmt.Errorf("lookup domain: %w", err)
	}
	return d, true, nil
}

func (p *persistence) addRecord(ctx context.Context, rec recordModel) (recordModel, error) {
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return recordModel{}, fmt.Errorf("create record: %w", err)
	}
	return rec, nil
}
