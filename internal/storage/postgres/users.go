package postgres

import "context"

func (r *userRepository) UpdateIdentityNumber(ctx context.Context, userID int64, identityNumber string) error {
	const query = `UPDATE users SET identity_number=$2, updated_at=NOW() WHERE id=$1`
	if _, err := r.storage.pool.Exec(ctx, query, userID, identityNumber); err != nil {
		return err
	}
	return nil
}
