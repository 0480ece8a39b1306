package db

import (
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MsConfig 主从配置，导出的查询走从库
type MsConfig struct {
	Master  Config        `help:"主库"`
	Slave   Config        `help:"从库"`
	Plugins []gorm.Plugin `help:"插件" internal:"true"`
}

type MsDb struct {
	master *gorm.DB
	slave  *gorm.DB
}

func NewMsDB(logger *zap.Logger, conf MsConfig) (_ *MsDb, err error) {
	ms := &MsDb{}
	if ms.master, err = NewDB(logger, conf.Master); err != nil {
		return nil, err
	}

	if ms.slave, err = NewDB(logger, conf.Slave); err != nil {
		return nil, err
	}
	for _, p := range conf.Plugins {
		if err = ms.master.Use(p); err != nil {
			return nil, ErrDB.Wrap(err)
		}
		if err = ms.slave.Use(p); err != nil {
			return nil, ErrDB.Wrap(err)
		}
	}
	return ms, nil
}

func (mdb *MsDb) Master() *gorm.DB {
	return mdb.master
}

func (mdb *MsDb) Slave() *gorm.DB {
	return mdb.slave
}

// Close 关闭主从两个连接池
func (mdb *MsDb) Close() error {
	var group errs.Group
	group.Add(Close(mdb.master), Close(mdb.slave))
	return group.Err()
}
