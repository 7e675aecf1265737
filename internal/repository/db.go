package repository

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/user/siamlacorns/internal/model"
)

// InitDB 初始化数据库连接并自动迁移表结构
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Println("数据库连接成功")
	return db, nil
}

// AutoMigrate 迁移全部业务表，测试环境也复用这份表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Lacorn{},
		&model.LacornGenre{},
		&model.LacornCountry{},
		&model.Episode{},
		&model.EpisodeVoiceover{},
		&model.Actor{},
		&model.Collection{},
		&model.WatchHistory{},
	)
}

// Repositories 汇总所有仓库实例
type Repositories struct {
	User       *UserRepository
	Lacorn     *LacornRepository
	Episode    *EpisodeRepository
	Actor      *ActorRepository
	Collection *CollectionRepository
	History    *HistoryRepository
}

// NewRepositories 创建所有仓库
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Lacorn:     NewLacornRepository(db),
		Episode:    NewEpisodeRepository(db),
		Actor:      NewActorRepository(db),
		Collection: NewCollectionRepository(db),
		History:    NewHistoryRepository(db),
	}
}
