package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- make sure transfers happen from one account to another one
				alter table entries
				ADD CONSTRAINT check_not_same_account
				CHECK (reference_user_id IS NULL OR reference_user_id != user_id);

			-- make sure that account balances never go negative
				CREATE OR REPLACE FUNCTION check_balance()
					RETURNS TRIGGER AS $$
				DECLARE
					sum NUMERIC(18,2);
				BEGIN
					-- only a negative entry can drive a balance down
					IF NEW.amount >= 0
					THEN
						RETURN NEW;
					END IF;

					-- LOCK the account row so the balance we are about to check cannot
					-- move under us before this transaction commits.
					-- IMPORTANT: lock rows but do not wait for another lock to be released.
					--   Waiting would result in a deadlock because two parallel transactions could try to lock the same rows
					--   NOWAIT reports an error rather than waiting for the lock to be released
					--   This can happen when two transactions try to access the same account
					PERFORM id FROM users
					WHERE id = NEW.user_id
					FOR UPDATE NOWAIT;

					SELECT INTO sum SUM(amount)
					FROM entries
					WHERE entries.user_id = NEW.user_id;

					-- IF the account would go negative raise an exception
					IF sum < 0
					THEN
						RAISE EXCEPTION 'invalid balance [user_id:%] balance [%]',
						NEW.user_id,
						sum;
					END IF;
					RETURN NEW;
				END;
				$$ LANGUAGE plpgsql;

				-- deferrable trigger which is executed at the end of the transaction
				-- to check the balance for each inserted entry
				CREATE CONSTRAINT TRIGGER check_balance
				AFTER INSERT OR UPDATE ON entries
				DEFERRABLE
				FOR EACH ROW EXECUTE PROCEDURE check_balance();

			-- the usual access paths: per-user history and per-voucher use counts
				CREATE INDEX IF NOT EXISTS entries_user_id_created_at_idx ON entries (user_id, created_at DESC);
				CREATE INDEX IF NOT EXISTS entries_voucher_id_idx ON entries (voucher_id) WHERE voucher_id IS NOT NULL;
				CREATE INDEX IF NOT EXISTS vouchers_user_id_idx ON vouchers (user_id);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
