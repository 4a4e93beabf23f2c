package taskstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Popolzen/ossconvert/internal/model"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := New()

	text := "смотри http://a.com/1.jpg и http://b.com/2.png"
	task := store.Create(text, []string{"http://a.com/1.jpg", "http://b.com/2.png"})

	require.NotEmpty(t, task.ID)
	assert.Equal(t, 2, task.Total)
	assert.Equal(t, 0, task.Completed)
	assert.Equal(t, text, task.ConvertedText)

	for _, rec := range task.URLs {
		assert.Equal(t, model.StatusPending, rec.Status)
		assert.Empty(t, rec.StorageURL)
	}

	got, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestStore_GetNotFound(t *testing.T) {
	store := New()

	_, err := store.Get("несуществующий-id")

	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestStore_ApplyNotFound(t *testing.T) {
	store := New()

	err := store.Apply("несуществующий-id", model.Result{
		OriginalURL: "http://a.com",
		Outcome:     model.Outcome{Status: model.StatusSuccess, StorageURL: "http://oss/a"},
	})

	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestStore_ApplySuccess(t *testing.T) {
	store := New()
	text := "дважды http://a.com/x и снова http://a.com/x тут"
	task := store.Create(text, []string{"http://a.com/x"})

	err := store.Apply(task.ID, model.Result{
		OriginalURL: "http://a.com/x",
		Outcome:     model.Outcome{Status: model.StatusSuccess, StorageURL: "http://oss.local/x_ab12cd34"},
	})
	require.NoError(t, err)

	got, err := store.Get(task.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, model.StatusSuccess, got.URLs[0].Status)
	assert.Equal(t, "http://oss.local/x_ab12cd34", got.URLs[0].StorageURL)
	// Заменяются все вхождения исходного URL
	assert.Equal(t, "дважды http://oss.local/x_ab12cd34 и снова http://oss.local/x_ab12cd34 тут", got.ConvertedText)
}

func TestStore_ApplyFailedKeepsText(t *testing.T) {
	store := New()
	text := "битая ссылка http://dead.com/x"
	task := store.Create(text, []string{"http://dead.com/x"})

	err := store.Apply(task.ID, model.Result{
		OriginalURL: "http://dead.com/x",
		Outcome:     model.Outcome{Status: model.StatusFailed, StorageURL: "http://dead.com/x", Error: "connection refused"},
	})
	require.NoError(t, err)

	got, err := store.Get(task.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, model.StatusFailed, got.URLs[0].Status)
	assert.Equal(t, "connection refused", got.URLs[0].Error)
	assert.Equal(t, text, got.ConvertedText)
}

func TestStore_CompletedReachesTotal(t *testing.T) {
	store := New()
	urls := []string{"http://a.com/1", "http://b.com/2", "http://c.com/3"}
	task := store.Create("http://a.com/1 http://b.com/2 http://c.com/3", urls)

	statuses := []model.Status{model.StatusSuccess, model.StatusFailed, model.StatusSkipped}
	for i, u := range urls {
		storageURL := u
		if statuses[i] == model.StatusSuccess {
			storageURL = "http://oss.local/obj"
		}
		err := store.Apply(task.ID, model.Result{
			OriginalURL: u,
			Outcome:     model.Outcome{Status: statuses[i], StorageURL: storageURL},
		})
		require.NoError(t, err)

		got, err := store.Get(task.ID)
		require.NoError(t, err)
		assert.Equal(t, i+1, got.Completed)
	}

	got, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Total, got.Completed)
}

func TestStore_SnapshotIsolated(t *testing.T) {
	store := New()
	task := store.Create("http://a.com", []string{"http://a.com"})

	first, err := store.Get(task.ID)
	require.NoError(t, err)

	// Правка снапшота не должна просочиться в хранилище
	first.URLs[0].Status = model.StatusFailed
	first.URLs[0].Error = "подмена"

	second, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, second.URLs[0].Status)
	assert.Empty(t, second.URLs[0].Error)
}

func TestStore_ConcurrentApplyAndGet(t *testing.T) {
	store := New()

	const n = 50
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://site%d.com/file", i)
	}
	task := store.Create("текст", urls)

	var wg sync.WaitGroup
	for _, u := range urls {
		u := u
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Apply(task.ID, model.Result{
				OriginalURL: u,
				Outcome:     model.Outcome{Status: model.StatusSuccess, StorageURL: u + "_oss"},
			})
			assert.NoError(t, err)
		}()
	}

	// Параллельные читатели: completed не должен убывать
	done := make(chan struct{})
	go func() {
		defer close(done)
		prev := 0
		for i := 0; i < 200; i++ {
			got, err := store.Get(task.ID)
			if assert.NoError(t, err) {
				assert.GreaterOrEqual(t, got.Completed, prev)
				prev = got.Completed
			}
		}
	}()

	wg.Wait()
	<-done

	got, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.Completed)
	assert.Equal(t, n, got.Total)
}
