package querysql

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
)

// assertGolden compares compiled SQL and its parameters against
// testdata/golden/<name>.golden.
func assertGolden(t *testing.T, name, sql string, params []any) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(fmt.Sprintf("%s\n%v\n", sql, params)))
}

func nthQuestionFilter() queryir.Predicate {
	return queryir.All(
		queryir.EqInt("examid", 1),
		queryir.EqInt("userid", 2),
		queryir.InInts("questionid", []int64{5, 9}),
	)
}

func TestSelect_GoldenSQLite(t *testing.T) {
	sql, params, err := NewSQLCompiler(SQLite).Select("userquestions", nthQuestionFilter(), nil, 1)
	require.NoError(t, err)
	assertGolden(t, "select_nth_sqlite", sql, params)
}

func TestSelect_GoldenPostgres(t *testing.T) {
	sql, params, err := NewSQLCompiler(Postgres).Select("userquestions", nthQuestionFilter(), nil, 1)
	require.NoError(t, err)
	assertGolden(t, "select_nth_postgres", sql, params)
}

func TestInsert_GoldenPostgres(t *testing.T) {
	sql, params, err := NewSQLCompiler(Postgres).Insert("questions", record.Fields{
		"number":  record.Int(2),
		"variant": record.Int(1),
		"text":    record.String("bla2"),
	})
	require.NoError(t, err)
	assertGolden(t, "insert_question_postgres", sql, params)
}

func TestUpdate_GoldenSQLite(t *testing.T) {
	sql, params, err := NewSQLCompiler(SQLite).Update("reviews", 7, record.Fields{
		"grade": record.Int(1),
		"text":  record.String("Bad!"),
	})
	require.NoError(t, err)
	assertGolden(t, "update_review_sqlite", sql, params)
}

func TestSelect_NoFilter(t *testing.T) {
	sql, params, err := NewSQLCompiler(SQLite).Select("questions", nil, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM questions ORDER BY id ASC", sql)
	assert.Empty(t, params)
}

func TestSelect_OrderAlwaysEndsWithID(t *testing.T) {
	order := []queryir.Order{{Field: "number"}, {Field: "variant", Desc: true}}
	sql, _, err := NewSQLCompiler(SQLite).Select("questions", nil, order, 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM questions ORDER BY number ASC, variant DESC, id ASC", sql)
}

func TestSelect_ExplicitIDOrderNotDuplicated(t *testing.T) {
	sql, _, err := NewSQLCompiler(SQLite).Select("answers", nil, []queryir.Order{{Field: "id"}}, 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM answers ORDER BY id ASC", sql)
}

func TestSelect_ValuesNeverInterpolated(t *testing.T) {
	filter := queryir.Eq("username", record.String("x' OR '1'='1"))
	sql, params, err := NewSQLCompiler(SQLite).Select("users", filter, nil, 0)
	require.NoError(t, err)

	assert.NotContains(t, sql, "OR")
	assert.Equal(t, []any{"x' OR '1'='1"}, params)
}

func TestSelect_EmptyInMatchesNothing(t *testing.T) {
	sql, params, err := NewSQLCompiler(Postgres).Select("answers", queryir.InInts("uqid", nil), nil, 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM answers WHERE 1 = 0 ORDER BY id ASC", sql)
	assert.Empty(t, params)
}

func TestSelect_EmptyAndIsVacuous(t *testing.T) {
	sql, _, err := NewSQLCompiler(SQLite).Select("exam", queryir.All(), nil, 1)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM exam WHERE 1 = 1 ORDER BY id ASC LIMIT 1", sql)
}

func TestSelect_NestedAndNumbersParamsInOrder(t *testing.T) {
	filter := queryir.All(
		queryir.FieldsEqual(record.Fields{"number": record.Int(42), "variant": record.Int(13)}),
		queryir.EqInt("id", 5),
	)
	sql, params, err := NewSQLCompiler(Postgres).Select("questions", filter, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM questions WHERE number = $1 AND variant = $2 AND id = $3 ORDER BY id ASC", sql)
	assert.Equal(t, []any{int64(42), int64(13), int64(5)}, params)
}

func TestSelect_RejectsInvalidNames(t *testing.T) {
	c := NewSQLCompiler(SQLite)

	_, _, err := c.Select("users; DROP", nil, nil, 0)
	assert.ErrorContains(t, err, "invalid table name")

	_, _, err = c.Select("users", queryir.EqInt("UserID", 1), nil, 0)
	assert.ErrorContains(t, err, "invalid field name")

	_, _, err = c.Select("users", nil, []queryir.Order{{Field: "x y"}}, 0)
	assert.ErrorContains(t, err, "invalid column name")
}

func TestSelect_RejectsNullComparison(t *testing.T) {
	_, _, err := NewSQLCompiler(SQLite).Select("users", queryir.Eq("username", record.Null{}), nil, 0)
	assert.ErrorContains(t, err, "compared to NULL")
}

func TestCount(t *testing.T) {
	sql, params, err := NewSQLCompiler(SQLite).Count("reviews", queryir.InInts("revid", []int64{1, 2, 3}))
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM reviews WHERE revid IN (?, ?, ?)", sql)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, params)
}

func TestInsert_SQLiteHasNoReturning(t *testing.T) {
	sql, params, err := NewSQLCompiler(SQLite).Insert("answers", record.Fields{
		"uqid": record.Int(3),
		"text": record.String("Good answer"),
	})
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO answers (text, uqid) VALUES (?, ?)", sql)
	assert.Equal(t, []any{"Good answer", int64(3)}, params)
}

func TestInsert_NullBindsNil(t *testing.T) {
	_, params, err := NewSQLCompiler(SQLite).Insert("users", record.Fields{"username": record.Null{}})
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, params)
}

func TestInsert_NoFields(t *testing.T) {
	_, _, err := NewSQLCompiler(SQLite).Insert("answers", record.Fields{})
	assert.ErrorContains(t, err, "no fields")
}

func TestUpdate_PostgresPlaceholders(t *testing.T) {
	sql, params, err := NewSQLCompiler(Postgres).Update("exam", 1, record.Fields{"state": record.String("reviewing")})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE exam SET state = $1 WHERE id = $2", sql)
	assert.Equal(t, []any{"reviewing", int64(1)}, params)
}

func TestUpdate_NoFields(t *testing.T) {
	_, _, err := NewSQLCompiler(SQLite).Update("answers", 1, nil)
	assert.ErrorContains(t, err, "no fields")
}

func TestDialectFor(t *testing.T) {
	tests := map[string]Dialect{
		"sqlite3":  SQLite,
		"sqlite":   SQLite,
		"pgx":      Postgres,
		"postgres": Postgres,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DialectFor(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := DialectFor("mysql")
	assert.ErrorContains(t, err, `unsupported driver "mysql"`)
}

func TestSelect_InSelectKeepsParamCountConstant(t *testing.T) {
	where := queryir.All(
		queryir.EqInt("examid", 1),
		queryir.InSubquery("questionid", "questions", "id", queryir.EqInt("number", 2)),
	)

	sql, params, err := NewSQLCompiler(Postgres).Select("userquestions", where, nil, 1)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM userquestions WHERE examid = $1 AND questionid IN (SELECT id FROM questions WHERE number = $2) ORDER BY id ASC LIMIT 1",
		sql)
	assert.Equal(t, []any{int64(1), int64(2)}, params)

	sql, _, err = NewSQLCompiler(SQLite).Count("reviews",
		queryir.InSubquery("revid", "userreviews", "id", nil))
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM reviews WHERE revid IN (SELECT id FROM userreviews)", sql)
}
