package database

type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CountSubscriptions returns the total number of subscriptions.
func (r *Repository) CountSubscriptions() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM subscriptions`).Scan(&n)
	return n, err
}

// CountNotifications returns the total number of stored notifications.
func (r *Repository) CountNotifications() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&n)
	return n, err
}
