// Package project holds the in-memory collections of projects and tasks with
// filtered and sorted views. Nothing here persists; collections are refetched
// from the backend after a restart.
package project

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// Status is the lifecycle state of a project or task.
type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SortField names the comparator key for filtered views.
type SortField string

const (
	SortByName    SortField = "name"
	SortByCreated SortField = "created_at"
	SortByUpdated SortField = "updated_at"
)

// Filter narrows and orders a collection view. Zero-valued fields are
// ignored. Filters apply in order: status membership, tag intersection (any
// match), case-insensitive substring search over name and description, then
// the sort.
type Filter struct {
	Statuses  []Status
	Tags      []string
	Search    string
	ProjectID string // tasks only
	SortBy    SortField
	Desc      bool
}

func (f Filter) matchStatus(s Status) bool {
	if len(f.Statuses) == 0 {
		return true
	}

	for _, want := range f.Statuses {
		if s == want {
			return true
		}
	}

	return false
}

func (f Filter) matchTags(tags []string) bool {
	if len(f.Tags) == 0 {
		return true
	}

	for _, want := range f.Tags {
		for _, have := range tags {
			if want == have {
				return true
			}
		}
	}

	return false
}

func (f Filter) matchSearch(name, description string) bool {
	if f.Search == "" {
		return true
	}

	q := strings.ToLower(f.Search)

	return strings.Contains(strings.ToLower(name), q) ||
		strings.Contains(strings.ToLower(description), q)
}

// Store owns the project and task collections and the current selections.
type Store struct {
	mu sync.Mutex

	projects map[string]*Project
	tasks    map[string]*Task

	selectedProject string
	selectedTask    string
}

func NewStore() *Store {
	return &Store{
		projects: make(map[string]*Project),
		tasks:    make(map[string]*Task),
	}
}

// SetProjects replaces the collection with projects fetched from the
// backend, keeping their ids and timestamps. Selections are cleared.
func (s *Store) SetProjects(list []Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = make(map[string]*Project, len(list))

	for i := range list {
		p := list[i]
		s.projects[p.ID] = &p
	}

	s.selectedProject = ""
	s.selectedTask = ""
}

// AddProject inserts a project, assigning an id and timestamps, and returns
// the stored copy.
func (s *Store) AddProject(p Project) Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if p.Status == "" {
		p.Status = StatusActive
	}

	s.projects[p.ID] = &p

	return p
}

// UpdateProject applies changes to an existing project, preserving its id
// and creation time.
func (s *Store) UpdateProject(id string, update Project) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.projects[id]
	if !ok {
		return Project{}, ErrProjectNotFound
	}

	update.ID = existing.ID
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now()

	s.projects[id] = &update

	return update, nil
}

// DeleteProject removes a project, all of its tasks, and clears any
// selection pointing at the removed records.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return ErrProjectNotFound
	}

	delete(s.projects, id)

	for taskID, task := range s.tasks {
		if task.ProjectID == id {
			delete(s.tasks, taskID)

			if s.selectedTask == taskID {
				s.selectedTask = ""
			}
		}
	}

	if s.selectedProject == id {
		s.selectedProject = ""
	}

	return nil
}

// GetProject returns a project by id.
func (s *Store) GetProject(id string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrProjectNotFound
	}

	return *p, nil
}

// FilteredProjects returns a sorted view of projects matching the filter.
func (s *Store) FilteredProjects(f Filter) []Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Project

	for _, p := range s.projects {
		if f.matchStatus(p.Status) &&
			f.matchTags(p.Tags) &&
			f.matchSearch(p.Name, p.Description) {
			out = append(out, *p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(
			f,
			out[i].Name, out[j].Name,
			out[i].CreatedAt, out[j].CreatedAt,
			out[i].UpdatedAt, out[j].UpdatedAt,
		)
	})

	return out
}

// AddTask inserts a task under an existing project.
func (s *Store) AddTask(t Task) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[t.ProjectID]; !ok {
		return Task{}, ErrProjectNotFound
	}

	now := time.Now()

	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	if t.Status == "" {
		t.Status = StatusActive
	}

	s.tasks[t.ID] = &t

	return t, nil
}

// UpdateTask applies changes to an existing task, preserving its id, project
// membership, and creation time.
func (s *Store) UpdateTask(id string, update Task) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}

	update.ID = existing.ID
	update.ProjectID = existing.ProjectID
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now()

	s.tasks[id] = &update

	return update, nil
}

// DeleteTask removes a task and clears the task selection if it pointed at
// the removed record.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}

	delete(s.tasks, id)

	if s.selectedTask == id {
		s.selectedTask = ""
	}

	return nil
}

// GetTask returns a task by id.
func (s *Store) GetTask(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}

	return *t, nil
}

// FilteredTasks returns a sorted view of tasks matching the filter,
// including its project-id constraint when set.
func (s *Store) FilteredTasks(f Filter) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task

	for _, t := range s.tasks {
		if f.ProjectID != "" && t.ProjectID != f.ProjectID {
			continue
		}

		if f.matchStatus(t.Status) &&
			f.matchTags(t.Tags) &&
			f.matchSearch(t.Name, t.Description) {
			out = append(out, *t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(
			f,
			out[i].Name, out[j].Name,
			out[i].CreatedAt, out[j].CreatedAt,
			out[i].UpdatedAt, out[j].UpdatedAt,
		)
	})

	return out
}

// SelectProject marks a project as the active selection.
func (s *Store) SelectProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return ErrProjectNotFound
	}

	s.selectedProject = id

	return nil
}

// SelectTask marks a task as the active selection.
func (s *Store) SelectTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}

	s.selectedTask = id

	return nil
}

// Selection returns the current project and task selections. Either may be
// empty.
func (s *Store) Selection() (projectID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedProject, s.selectedTask
}

// less orders two records by the filter's sort key, breaking name ties by
// creation time. Names compare in natural order so "task 2" sorts before
// "task 10". Descending order swaps the operands so equal keys still compare
// as equal and the stable sort keeps their relative order.
func less(
	f Filter,
	nameI, nameJ string,
	createdI, createdJ time.Time,
	updatedI, updatedJ time.Time,
) bool {
	if f.Desc {
		nameI, nameJ = nameJ, nameI
		createdI, createdJ = createdJ, createdI
		updatedI, updatedJ = updatedJ, updatedI
	}

	switch f.SortBy {
	case SortByCreated:
		return createdI.Before(createdJ)
	case SortByUpdated:
		return updatedI.Before(updatedJ)
	default:
		if nameI == nameJ {
			return createdI.Before(createdJ)
		}

		return natural.Less(nameI, nameJ)
	}
}
