package migrations

import (
	"context"
	"fmt"

	"github.com/blagoySimandov/astra/go/internal/user"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*user.UserProfileDB)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create user_profiles: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*user.UserProfileDB)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
