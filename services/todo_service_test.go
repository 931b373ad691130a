package services

import (
	"context"
	"strings"
	"testing"

	"mada_server_go/models"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCategories struct {
	rows   map[int64]models.Category
	nextID int64
}

func newMemCategories() *memCategories {
	return &memCategories{rows: map[int64]models.Category{}, nextID: 1}
}

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	c.ID = m.nextID
	m.nextID++
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) Update(_ context.Context, c *models.Category) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) Delete(_ context.Context, userID, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *memCategories) FindByUserAndID(_ context.Context, userID, id int64) (mo.Option[models.Category], error) {
	c, ok := m.rows[id]
	if !ok || c.UserID != userID {
		return mo.None[models.Category](), nil
	}
	return mo.Some(c), nil
}

func (m *memCategories) FindAllByUser(_ context.Context, userID int64) ([]models.Category, error) {
	out := []models.Category{}
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.rows[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memTodos struct {
	rows   map[int64]models.Todo
	nextID int64
}

func newMemTodos() *memTodos {
	return &memTodos{rows: map[int64]models.Todo{}, nextID: 1}
}

func (m *memTodos) Create(_ context.Context, t *models.Todo) error {
	t.ID = m.nextID
	m.nextID++
	m.rows[t.ID] = *t
	return nil
}

func (m *memTodos) Update(_ context.Context, t *models.Todo) error {
	m.rows[t.ID] = *t
	return nil
}

func (m *memTodos) Delete(_ context.Context, userID, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *memTodos) FindByUserAndID(_ context.Context, userID, id int64) (mo.Option[models.Todo], error) {
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return mo.None[models.Todo](), nil
	}
	return mo.Some(t), nil
}

func (m *memTodos) filter(keep func(models.Todo) bool) []models.Todo {
	out := []models.Todo{}
	for id := int64(1); id < m.nextID; id++ {
		if t, ok := m.rows[id]; ok && keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (m *memTodos) FindAllByUserAndDate(_ context.Context, userID int64, date models.Date) ([]models.Todo, error) {
	return m.filter(func(t models.Todo) bool { return t.UserID == userID && t.Date.Equal(date) }), nil
}

func (m *memTodos) FindAllByUserBetween(_ context.Context, userID int64, start, end models.Date) ([]models.Todo, error) {
	return m.filter(func(t models.Todo) bool { return t.UserID == userID && withinRange(t.Date, start, end) }), nil
}

func ptr[T any](v T) *T { return &v }

func newTodoFixture() (*CategoryService, *TodoService, *memTodos) {
	users := directory{
		aliceAuth: {ID: 1, AuthID: aliceAuth},
		bobAuth:   {ID: 2, AuthID: bobAuth},
	}
	categories := newMemCategories()
	todos := newMemTodos()
	return NewCategoryService(users, categories, discardLogger()),
		NewTodoService(users, todos, categories, discardLogger()),
		todos
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	categories, _, _ := newTodoFixture()

	_, err := categories.Create(ctx, aliceAuth, models.CategoryRequest{})
	assert.ErrorIs(t, err, ErrInvalidCategoryName)
	_, err = categories.Create(ctx, aliceAuth, models.CategoryRequest{CategoryName: ptr(strings.Repeat("가", 31))})
	assert.ErrorIs(t, err, ErrInvalidCategoryName)

	// 30 символов - допустимо, считаются руны, а не байты.
	c, err := categories.Create(ctx, aliceAuth, models.CategoryRequest{
		CategoryName: ptr(strings.Repeat("가", 30)),
		Color:        ptr("#123456"),
		IconID:       ptr(int64(4)),
	})
	require.NoError(t, err)
	assert.Equal(t, "#123456", c.Color)

	updated, err := categories.Update(ctx, aliceAuth, c.ID, models.CategoryRequest{CategoryName: ptr("Study")})
	require.NoError(t, err)
	assert.Equal(t, "Study", updated.Name)
	assert.Equal(t, "#123456", updated.Color)
	assert.Equal(t, int64(4), updated.IconID)

	_, err = categories.Get(ctx, bobAuth, c.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, categories.Delete(ctx, bobAuth, c.ID), ErrCategoryNotFound)

	list, err := categories.List(ctx, aliceAuth)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, categories.Delete(ctx, aliceAuth, c.ID))
	_, err = categories.Get(ctx, aliceAuth, c.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestTodoService_CRUD(t *testing.T) {
	ctx := context.Background()
	categories, todos, store := newTodoFixture()

	cat, err := categories.Create(ctx, aliceAuth, models.CategoryRequest{CategoryName: ptr("Work")})
	require.NoError(t, err)
	bobCat, err := categories.Create(ctx, bobAuth, models.CategoryRequest{CategoryName: ptr("Bob")})
	require.NoError(t, err)

	d := day("2024-06-01")
	_, err = todos.Create(ctx, aliceAuth, models.TodoRequest{CategoryID: &cat.ID, TodoName: ptr("no date")})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = todos.Create(ctx, aliceAuth, models.TodoRequest{CategoryID: &bobCat.ID, Date: &d, TodoName: ptr("foreign")})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	todo, err := todos.Create(ctx, aliceAuth, models.TodoRequest{CategoryID: &cat.ID, Date: &d, TodoName: ptr("Report")})
	require.NoError(t, err)
	assert.False(t, todo.Complete)

	updated, err := todos.Update(ctx, aliceAuth, todo.ID, models.TodoRequest{Complete: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Complete)
	assert.Equal(t, "Report", updated.Name)

	_, err = todos.Update(ctx, bobAuth, todo.ID, models.TodoRequest{Complete: ptr(false)})
	assert.ErrorIs(t, err, ErrTodoNotFound)

	list, err := todos.ListByDate(ctx, aliceAuth, d)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, todos.Delete(ctx, bobAuth, todo.ID), ErrTodoNotFound)
	require.NoError(t, todos.Delete(ctx, aliceAuth, todo.ID))
	assert.Empty(t, store.rows)
}

func TestTodoService_Average(t *testing.T) {
	ctx := context.Background()
	categories, todos, _ := newTodoFixture()

	cat, err := categories.Create(ctx, aliceAuth, models.CategoryRequest{CategoryName: ptr("Work")})
	require.NoError(t, err)

	add := func(date string, complete bool) {
		d := day(date)
		_, err := todos.Create(ctx, aliceAuth, models.TodoRequest{CategoryID: &cat.ID, Date: &d, TodoName: ptr("t"), Complete: &complete})
		require.NoError(t, err)
	}
	add("2024-06-01", true)
	add("2024-06-01", false)
	add("2024-06-03", true)
	add("2024-06-04", true)
	add("2024-07-01", false) // вне периода

	avg, err := todos.Average(ctx, aliceAuth, day("2024-06-01"), day("2024-06-04"))
	require.NoError(t, err)
	// 3 дня из 4 с задачами, 3 из 4 задач выполнены.
	assert.InDelta(t, 75.0, avg.TodosPercent, 0.001)
	assert.InDelta(t, 75.0, avg.CompleteTodoPercent, 0.001)

	empty, err := todos.Average(ctx, aliceAuth, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Zero(t, empty.TodosPercent)
	assert.Zero(t, empty.CompleteTodoPercent)

	_, err = todos.Average(ctx, aliceAuth, day("2024-06-04"), day("2024-06-01"))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
