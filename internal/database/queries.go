package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gistbot/internal/domain"
	"gistbot/internal/summarizer"
)

func (d *Database) SetCredential(ctx context.Context, userID int64, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key is empty")
	}

	query := `insert into user_credentials (user_id, api_key, updated_at)
	values (?, ?, current_timestamp)
	on conflict (user_id) do update
	set api_key = excluded.api_key, updated_at = excluded.updated_at`

	_, err := d.db.ExecContext(ctx, query, userID, apiKey)

	return err
}

func (d *Database) DeleteCredential(ctx context.Context, userID int64) error {
	query := "delete from user_credentials where user_id = ?"

	_, err := d.db.ExecContext(ctx, query, userID)

	return err
}

// Credential returns the stored API key of the user or an empty string.
func (d *Database) Credential(ctx context.Context, userID int64) (string, error) {
	query := "select api_key from user_credentials where user_id = ?"

	var apiKey string
	if err := d.db.QueryRowContext(ctx, query, userID).Scan(&apiKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to scan row: %w", err)
	}

	return strings.TrimSpace(apiKey), nil
}

func (d *Database) GetUserSettingsWithDefault(
	ctx context.Context,
	userID int64,
) (*domain.UserSettings, error) {
	query := `select user_id, summary_style
	from user_settings
	where user_id = ?`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"userID", userID,
				"operation", "GetUserSettingsWithDefault")
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w", err)
		}
		return &domain.UserSettings{
			UserID:       userID,
			SummaryStyle: string(summarizer.StyleBrief),
		}, nil
	}

	var us domain.UserSettings
	if err = rows.Scan(&us.UserID, &us.SummaryStyle); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	us.SummaryStyle = string(summarizer.ParseStyle(us.SummaryStyle))

	return &us, nil
}

func (d *Database) UpsertUserSettings(ctx context.Context, userSettings *domain.UserSettings) error {
	query := `insert into user_settings (user_id, summary_style)
	values (?, ?)
	on conflict (user_id) do update
	set summary_style = excluded.summary_style`

	style := summarizer.ParseStyle(userSettings.SummaryStyle)

	_, err := d.db.ExecContext(ctx, query, userSettings.UserID, string(style))

	return err
}
