package corpus

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"recipe-chatbot/internal/core/recipe"
	"recipe-chatbot/internal/pkg/common"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteCorpus SQLite 後端的食譜庫。
// 對固定的庫快照，相同查詢的結果順序由 SQLite 的掃描順序決定，是確定性的。
type SQLiteCorpus struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// 編譯期介面檢查
var _ recipe.Corpus = (*SQLiteCorpus)(nil)

// Open 開啟食譜庫並套用 schema
func Open(path string, queryTimeout time.Duration) (*SQLiteCorpus, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply corpus schema: %w", err)
	}

	return &SQLiteCorpus{db: db, queryTimeout: queryTimeout}, nil
}

// FindByAnyIngredient 回傳食材文字包含任一查詢詞的食譜。
// 以 LIKE 做大小寫不敏感的子字串匹配，多個詞之間取 OR。
func (c *SQLiteCorpus) FindByAnyIngredient(ctx context.Context, terms []string, retrievalLimit int) ([]recipe.Recipe, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	// 組裝 OR 條件
	conditions := make([]string, 0, len(terms))
	params := make([]interface{}, 0, len(terms)+1)
	for _, term := range terms {
		conditions = append(conditions, "LOWER(Ingredients) LIKE ?")
		params = append(params, "%"+strings.ToLower(term)+"%")
	}
	params = append(params, retrievalLimit)

	query := fmt.Sprintf(
		"SELECT id, Title, Ingredients, Instructions FROM recipes WHERE %s LIMIT ?",
		strings.Join(conditions, " OR "),
	)

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, params...)
	common.LogCorpusQuery(len(terms), time.Since(start), err, "")
	if err != nil {
		return nil, fmt.Errorf("corpus query failed: %w", err)
	}
	defer rows.Close()

	var recipes []recipe.Recipe
	for rows.Next() {
		var r recipe.Recipe
		if err := rows.Scan(&r.ID, &r.Title, &r.Ingredients, &r.Instructions); err != nil {
			return nil, fmt.Errorf("corpus row scan failed: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("corpus iteration failed: %w", err)
	}

	return recipes, nil
}

// GetByID 以 ID 取得單筆食譜
func (c *SQLiteCorpus) GetByID(ctx context.Context, id int) (*recipe.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	var r recipe.Recipe
	err := c.db.QueryRowContext(ctx,
		"SELECT id, Title, Ingredients, Instructions FROM recipes WHERE id = ?", id,
	).Scan(&r.ID, &r.Title, &r.Ingredients, &r.Instructions)
	if err == sql.ErrNoRows {
		return nil, common.ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("corpus lookup failed: %w", err)
	}
	return &r, nil
}

// Count 回傳食譜總數
func (c *SQLiteCorpus) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	var count int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&count); err != nil {
		return 0, fmt.Errorf("corpus count failed: %w", err)
	}
	return count, nil
}

// Insert 寫入一筆食譜，回傳指派的 ID。主要供測試與資料匯入使用。
func (c *SQLiteCorpus) Insert(ctx context.Context, title, ingredients, instructions string) (int, error) {
	res, err := c.db.ExecContext(ctx,
		"INSERT INTO recipes (Title, Ingredients, Instructions) VALUES (?, ?, ?)",
		title, ingredients, instructions,
	)
	if err != nil {
		return 0, fmt.Errorf("corpus insert failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// Close 關閉食譜庫
func (c *SQLiteCorpus) Close() error {
	if err := c.db.Close(); err != nil {
		common.LogWarn("關閉食譜庫失敗", zap.Error(err))
		return err
	}
	return nil
}
