package migration

import (
	accountdomain "github.com/smscentra/portal/internal/account/domain"
	authdomain "github.com/smscentra/portal/internal/auth/domain"
	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/seed"
	smsdomain "github.com/smscentra/portal/internal/sms/domain"
	trxdomain "github.com/smscentra/portal/internal/transaction/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// All portal tables are created automatically on startup so local and
// self-hosted environments work out of the box.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}
		return seed.EnsureAdmin(conn)
	}),
)

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountdomain.User{},
		&accountdomain.ClientProfile{},
		&authdomain.Session{},
		&smsdomain.Record{},
		&trxdomain.Transaction{},
	)
}
