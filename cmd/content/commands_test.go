package content

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
	"github.com/Taichi-iskw/contentrepo/internal/repository/translation"
)

// Mock content repository. Calling a method whose func is unset panics.
type mockRepository struct {
	contentRepo.Repository

	CreateFunc            func(ctx context.Context, input *model.CreateContentInput, author *model.User) (*model.Content, error)
	UpdateFunc            func(ctx context.Context, id int64, input *model.UpdateContentInput) (*model.Content, error)
	DeleteFunc            func(ctx context.Context, id int64) error
	GetByIDFunc           func(ctx context.Context, id int64) (*model.Content, error)
	GetByURLFunc          func(ctx context.Context, url, lang string) (*model.Content, error)
	GetContentsFunc       func(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error)
	GetDeletedFunc        func(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error)
	GetTreeFunc           func(ctx context.Context, rootID *int64, criteria query.Criteria) ([]*model.Content, error)
	GetTranslationsFunc   func(ctx context.Context, contentID int64, criteria translation.Criteria) (*model.Page[*model.Translation], error)
	DeleteTranslationFunc func(ctx context.Context, contentID, translationID int64) error
	RegenerateRouteFunc   func(ctx context.Context, contentID int64, lang string) (*model.RouteTranslation, error)
	AddFilesFunc          func(ctx context.Context, contentID int64, fileIDs []int64) ([]*model.File, error)
}

func (m *mockRepository) Create(ctx context.Context, input *model.CreateContentInput, author *model.User) (*model.Content, error) {
	return m.CreateFunc(ctx, input, author)
}

func (m *mockRepository) Update(ctx context.Context, id int64, input *model.UpdateContentInput) (*model.Content, error) {
	return m.UpdateFunc(ctx, id, input)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*model.Content, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockRepository) GetByURL(ctx context.Context, url, lang string) (*model.Content, error) {
	return m.GetByURLFunc(ctx, url, lang)
}

func (m *mockRepository) GetContents(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return m.GetContentsFunc(ctx, criteria)
}

func (m *mockRepository) GetDeletedContents(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return m.GetDeletedFunc(ctx, criteria)
}

func (m *mockRepository) GetTree(ctx context.Context, rootID *int64, criteria query.Criteria) ([]*model.Content, error) {
	return m.GetTreeFunc(ctx, rootID, criteria)
}

func (m *mockRepository) GetTranslations(ctx context.Context, contentID int64, criteria translation.Criteria) (*model.Page[*model.Translation], error) {
	return m.GetTranslationsFunc(ctx, contentID, criteria)
}

func (m *mockRepository) DeleteTranslation(ctx context.Context, contentID, translationID int64) error {
	return m.DeleteTranslationFunc(ctx, contentID, translationID)
}

func (m *mockRepository) RegenerateRoute(ctx context.Context, contentID int64, lang string) (*model.RouteTranslation, error) {
	return m.RegenerateRouteFunc(ctx, contentID, lang)
}

func (m *mockRepository) AddFiles(ctx context.Context, contentID int64, fileIDs []int64) ([]*model.File, error) {
	return m.AddFilesFunc(ctx, contentID, fileIDs)
}

func exampleContent() *model.Content {
	return &model.Content{
		ID:        7,
		Type:      model.ContentTypeContent,
		Path:      "1/",
		Level:     1,
		ParentID:  int64Ptr(1),
		IsActive:  true,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Translations: []*model.Translation{
			{ID: 70, ContentID: 7, LanguageCode: "en", Title: "Example title", IsActive: true},
		},
		Route: &model.Route{ID: 71, ContentID: 7, Translations: []*model.RouteTranslation{
			{ID: 72, RouteID: 71, LanguageCode: "en", URL: "start/example-title", IsActive: true},
		}},
	}
}

func int64Ptr(v int64) *int64 { return &v }

// run executes cmd with args and returns its combined output
func run(cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCreateCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		setupMock      func(*mockRepository)
		expectedOutput string
		wantErr        bool
	}{
		{
			name: "successful content creation",
			args: []string{"--title", "Example title", "--lang", "en", "--parent", "1", "--weight", "3"},
			setupMock: func(m *mockRepository) {
				m.CreateFunc = func(ctx context.Context, input *model.CreateContentInput, author *model.User) (*model.Content, error) {
					assert.Equal(t, model.ContentTypeContent, input.Type)
					assert.Equal(t, int64(1), *input.ParentID)
					assert.Equal(t, 3, input.Weight)
					assert.Equal(t, "Example title", input.Translation.Title)
					assert.Nil(t, author)
					return exampleContent(), nil
				}
			},
			expectedOutput: "Content created successfully (ID: 7, URL: /start/example-title)",
		},
		{
			name:           "dry run mode",
			args:           []string{"--title", "Modified Example Title", "--lang", "en", "--dry-run"},
			setupMock:      func(m *mockRepository) {},
			expectedOutput: "URL slug: modified-example-title",
		},
		{
			name:      "missing title",
			args:      []string{"--lang", "en"},
			setupMock: func(m *mockRepository) {},
			wantErr:   true,
		},
		{
			name:      "invalid publication time",
			args:      []string{"--title", "Example", "--lang", "en", "--published-at", "yesterday"},
			setupMock: func(m *mockRepository) {},
			wantErr:   true,
		},
		{
			name: "repository error",
			args: []string{"--title", "Example", "--lang", "de"},
			setupMock: func(m *mockRepository) {
				m.CreateFunc = func(ctx context.Context, input *model.CreateContentInput, author *model.User) (*model.Content, error) {
					return nil, apperrors.New(apperrors.CodeInvalidArg, "language de is not enabled")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockRepository{}
			tt.setupMock(mockRepo)

			output, err := run(NewCreateCommand(mockRepo), tt.args...)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Contains(t, output, tt.expectedOutput)
			}
		})
	}
}

func TestGetCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		setupMock      func(*mockRepository)
		expectedOutput string
		wantErr        bool
	}{
		{
			name: "get by id in text format",
			args: []string{"7", "--lang", "en"},
			setupMock: func(m *mockRepository) {
				m.GetByIDFunc = func(ctx context.Context, id int64) (*model.Content, error) {
					assert.Equal(t, int64(7), id)
					return exampleContent(), nil
				}
			},
			expectedOutput: "url: /start/example-title",
		},
		{
			name: "get by url in json format",
			args: []string{"--url", "/start/example-title", "--lang", "en", "--format", "json"},
			setupMock: func(m *mockRepository) {
				m.GetByURLFunc = func(ctx context.Context, url, lang string) (*model.Content, error) {
					assert.Equal(t, "start/example-title", url)
					assert.Equal(t, "en", lang)
					return exampleContent(), nil
				}
			},
			expectedOutput: `"path": "1/"`,
		},
		{
			name:      "url without language",
			args:      []string{"--url", "start"},
			setupMock: func(m *mockRepository) {},
			wantErr:   true,
		},
		{
			name:      "neither id nor url",
			args:      []string{},
			setupMock: func(m *mockRepository) {},
			wantErr:   true,
		},
		{
			name:      "invalid id",
			args:      []string{"abc"},
			setupMock: func(m *mockRepository) {},
			wantErr:   true,
		},
		{
			name: "not found",
			args: []string{"9"},
			setupMock: func(m *mockRepository) {
				m.GetByIDFunc = func(ctx context.Context, id int64) (*model.Content, error) {
					return nil, apperrors.Newf(apperrors.CodeNotFound, "content id: %d doesn't exist", id)
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockRepository{}
			tt.setupMock(mockRepo)

			output, err := run(NewGetCommand(mockRepo), tt.args...)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Contains(t, output, tt.expectedOutput)
			}
		})
	}
}

func TestListCommand(t *testing.T) {
	page := &model.Page[*model.Content]{Items: []*model.Content{exampleContent()}, Total: 1, Page: 1, PageSize: 20}

	t.Run("criteria come from flags", func(t *testing.T) {
		mockRepo := &mockRepository{
			GetContentsFunc: func(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
				assert.Equal(t, "en", criteria.Lang())
				assert.Contains(t, criteria.Filters, query.Filter{Field: "weight", Op: query.OpGte, Value: int64(3)})
				assert.Equal(t, []query.Sort{{Field: "translations.title", Direction: query.Desc}}, criteria.Sorts)
				assert.Equal(t, 2, criteria.Page)
				return page, nil
			},
		}

		output, err := run(NewListCommand(mockRepo, 20),
			"--lang", "en", "--filter", "weight>=3", "--sort", "translations.title:desc", "--page", "2")
		require.NoError(t, err)
		assert.Contains(t, output, "Example title")
		assert.Contains(t, output, "Page 1 of 1 (1 total)")
	})

	t.Run("trashed scope", func(t *testing.T) {
		called := false
		mockRepo := &mockRepository{
			GetDeletedFunc: func(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
				called = true
				return &model.Page[*model.Content]{}, nil
			},
		}

		output, err := run(NewListCommand(mockRepo, 20), "--scope", "trashed")
		require.NoError(t, err)
		assert.True(t, called)
		assert.Contains(t, output, "No contents found")
	})

	t.Run("unknown scope", func(t *testing.T) {
		_, err := run(NewListCommand(&mockRepository{}, 20), "--scope", "archived")
		assert.Error(t, err)
	})

	t.Run("malformed filter", func(t *testing.T) {
		_, err := run(NewListCommand(&mockRepository{}, 20), "--filter", "weight")
		assert.Error(t, err)
	})
}

func TestTreeCommand(t *testing.T) {
	root := &model.Content{ID: 1, Translations: []*model.Translation{{LanguageCode: "en", Title: "Start", IsActive: true}}}
	root.Children = []*model.Content{exampleContent()}

	mockRepo := &mockRepository{
		GetTreeFunc: func(ctx context.Context, rootID *int64, criteria query.Criteria) ([]*model.Content, error) {
			require.NotNil(t, rootID)
			assert.Equal(t, int64(1), *rootID)
			assert.Equal(t, 0, criteria.PageSize)
			return []*model.Content{root}, nil
		},
	}

	output, err := run(NewTreeCommand(mockRepo), "--root", "1", "--lang", "en")
	require.NoError(t, err)
	assert.Equal(t, "- [1] Start\n  - [7] Example title (/start/example-title)\n", output)
}

func TestUpdateCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, input *model.UpdateContentInput)
		wantErr bool
	}{
		{
			name: "only changed flags are applied",
			args: []string{"7", "--weight", "5", "--sticky"},
			check: func(t *testing.T, input *model.UpdateContentInput) {
				assert.False(t, input.SetParent)
				require.NotNil(t, input.Weight)
				assert.Equal(t, 5, *input.Weight)
				require.NotNil(t, input.IsSticky)
				assert.True(t, *input.IsSticky)
				assert.Nil(t, input.IsActive)
				assert.Nil(t, input.Theme)
			},
		},
		{
			name: "move under parent",
			args: []string{"7", "--parent", "4"},
			check: func(t *testing.T, input *model.UpdateContentInput) {
				assert.True(t, input.SetParent)
				require.NotNil(t, input.ParentID)
				assert.Equal(t, int64(4), *input.ParentID)
			},
		},
		{
			name: "detach to root",
			args: []string{"7", "--root"},
			check: func(t *testing.T, input *model.UpdateContentInput) {
				assert.True(t, input.SetParent)
				assert.Nil(t, input.ParentID)
			},
		},
		{
			name:    "parent and root together",
			args:    []string{"7", "--root", "--parent", "4"},
			wantErr: true,
		},
		{
			name:    "no flags",
			args:    []string{"7"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockRepository{
				UpdateFunc: func(ctx context.Context, id int64, input *model.UpdateContentInput) (*model.Content, error) {
					assert.Equal(t, int64(7), id)
					tt.check(t, input)
					return exampleContent(), nil
				},
			}

			output, err := run(NewUpdateCommand(mockRepo), tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, output, "Content 7 updated successfully")
		})
	}
}

func TestDeleteCommand(t *testing.T) {
	t.Run("forced delete", func(t *testing.T) {
		mockRepo := &mockRepository{
			DeleteFunc: func(ctx context.Context, id int64) error {
				assert.Equal(t, int64(7), id)
				return nil
			},
		}

		output, err := run(NewDeleteCommand(mockRepo), "7", "--force")
		require.NoError(t, err)
		assert.Contains(t, output, "Content 7 moved to trash")
	})

	t.Run("cancelled without confirmation", func(t *testing.T) {
		output, err := run(NewDeleteCommand(&mockRepository{}), "7")
		require.NoError(t, err)
		assert.Contains(t, output, "Deletion cancelled")
	})

	t.Run("confirmed from input", func(t *testing.T) {
		deleted := false
		cmd := NewDeleteCommand(&mockRepository{
			DeleteFunc: func(ctx context.Context, id int64) error {
				deleted = true
				return nil
			},
		})

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetIn(strings.NewReader("y\n"))
		cmd.SetArgs([]string{"7"})

		require.NoError(t, cmd.Execute())
		assert.True(t, deleted)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := &mockRepository{
			DeleteFunc: func(ctx context.Context, id int64) error {
				return errors.New("connection refused")
			},
		}

		_, err := run(NewDeleteCommand(mockRepo), "7", "--force")
		assert.ErrorContains(t, err, "failed to delete content")
	})
}

func TestTranslationCommands(t *testing.T) {
	t.Run("list passes criteria", func(t *testing.T) {
		mockRepo := &mockRepository{
			GetTranslationsFunc: func(ctx context.Context, contentID int64, criteria translation.Criteria) (*model.Page[*model.Translation], error) {
				assert.Equal(t, int64(7), contentID)
				assert.Equal(t, "en", criteria.Lang)
				require.NotNil(t, criteria.IsActive)
				assert.False(t, *criteria.IsActive)
				return &model.Page[*model.Translation]{
					Items: []*model.Translation{{ID: 3, LanguageCode: "en", Title: "Old title"}},
					Total: 1, Page: 1, PageSize: 20,
				}, nil
			},
		}

		output, err := run(NewTranslationCommand(mockRepo), "list", "7", "--lang", "en", "--active=false")
		require.NoError(t, err)
		assert.Contains(t, output, "Language: en (inactive)")
		assert.Contains(t, output, "Title: Old title")
	})

	t.Run("deleting an active translation fails", func(t *testing.T) {
		mockRepo := &mockRepository{
			DeleteTranslationFunc: func(ctx context.Context, contentID, translationID int64) error {
				return apperrors.New(apperrors.CodeConflict, "Cannot delete active translation")
			},
		}

		_, err := run(NewTranslationCommand(mockRepo), "delete", "7", "70", "--force")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	})
}

func TestRouteRegenerateCommand(t *testing.T) {
	mockRepo := &mockRepository{
		RegenerateRouteFunc: func(ctx context.Context, contentID int64, lang string) (*model.RouteTranslation, error) {
			assert.Equal(t, int64(7), contentID)
			assert.Equal(t, "pl", lang)
			return &model.RouteTranslation{LanguageCode: "pl", URL: "start/przyklad"}, nil
		},
	}

	output, err := run(NewRouteCommand(mockRepo), "regenerate", "7", "--lang", "pl")
	require.NoError(t, err)
	assert.Contains(t, output, "Route regenerated: /start/przyklad (pl)")

	_, err = run(NewRouteCommand(mockRepo), "regenerate", "7")
	assert.Error(t, err, "--lang is required")
}

func TestFileAddCommand(t *testing.T) {
	mockRepo := &mockRepository{
		AddFilesFunc: func(ctx context.Context, contentID int64, fileIDs []int64) ([]*model.File, error) {
			assert.Equal(t, []int64{3, 4}, fileIDs)
			return []*model.File{{ID: 3}, {ID: 4}}, nil
		},
	}

	output, err := run(NewFileCommand(mockRepo), "add", "7", "3", "4")
	require.NoError(t, err)
	assert.Contains(t, output, "2 file(s) attached to content 7")

	_, err = run(NewFileCommand(mockRepo), "add", "7", "x")
	assert.Error(t, err)
}
