package testing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/google/uuid"
)

// In-memory implementations of the storage interfaces. They mirror the
// conditional-write semantics of the Dynamo implementations so controller
// tests exercise the same contracts without a running database.

type FakeEventStorage struct {
	mu     sync.Mutex
	events []*storage.Event
	locks  map[string]string // category -> open event id
}

func NewFakeEventStorage() *FakeEventStorage {
	return &FakeEventStorage{locks: make(map[string]string)}
}

func (s *FakeEventStorage) GetOpenEvents(_ context.Context) ([]*storage.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []*storage.Event
	for _, e := range s.events {
		if e.IsOpen {
			open = append(open, e)
		}
	}
	return open, nil
}

func (s *FakeEventStorage) GetLastEvent(_ context.Context, category string) (*storage.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last *storage.Event
	for _, e := range s.events {
		if e.Category != category {
			continue
		}
		if last == nil || e.EventDate.After(last.EventDate) {
			last = e
		}
	}
	return last, nil
}

func (s *FakeEventStorage) GetByID(_ context.Context, eventID string) (*storage.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(eventID), nil
}

func (s *FakeEventStorage) Create(_ context.Context, event *storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.IsOpen {
		if _, held := s.locks[event.Category]; held {
			return storage.ErrOpenEventExists
		}
		s.locks[event.Category] = event.EventID
	}
	s.events = append(s.events, event)
	return nil
}

func (s *FakeEventStorage) Close(_ context.Context, eventID string) (*storage.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := s.findLocked(eventID)
	if event == nil || !event.IsOpen {
		return nil, storage.ErrNotFound
	}
	event.IsOpen = false
	delete(s.locks, event.Category)
	return event, nil
}

func (s *FakeEventStorage) findLocked(eventID string) *storage.Event {
	for _, e := range s.events {
		if e.EventID == eventID {
			return e
		}
	}
	return nil
}

type FakeMemberStorage struct {
	mu      sync.Mutex
	members map[string]*storage.Member
	stores  map[string]string // store number -> member id
}

func NewFakeMemberStorage() *FakeMemberStorage {
	return &FakeMemberStorage{
		members: make(map[string]*storage.Member),
		stores:  make(map[string]string),
	}
}

func (s *FakeMemberStorage) GetAll(_ context.Context) ([]*storage.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]*storage.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}
	return members, nil
}

func (s *FakeMemberStorage) Get(_ context.Context, memberID string) (*storage.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[memberID], nil
}

func (s *FakeMemberStorage) GetByName(_ context.Context, name string) (*storage.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byNameLocked(name), nil
}

func (s *FakeMemberStorage) GetByStoreNumber(_ context.Context, storeNumber string) (*storage.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.stores[storeNumber]
	if !ok {
		return nil, nil
	}
	return s.members[id], nil
}

func (s *FakeMemberStorage) Add(_ context.Context, name, storeNumber string) (*storage.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(name, storeNumber)
}

func (s *FakeMemberStorage) addLocked(name, storeNumber string) (*storage.Member, error) {
	if _, taken := s.stores[storeNumber]; taken {
		return nil, storage.ErrDuplicateStoreNumber
	}

	member := s.byNameLocked(name)
	if member == nil {
		member = &storage.Member{
			MemberID:      uuid.NewString(),
			MemberName:    name,
			IsBoardMember: false,
		}
		s.members[member.MemberID] = member
	}
	member.StoreNumbers = append(member.StoreNumbers, storeNumber)
	s.stores[storeNumber] = member.MemberID
	return member, nil
}

func (s *FakeMemberStorage) Remove(_ context.Context, name, storeNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := s.byNameLocked(name)
	if member == nil {
		return storage.ErrNotFound
	}

	index := -1
	for i, sn := range member.StoreNumbers {
		if sn == storeNumber {
			index = i
			break
		}
	}
	if index < 0 {
		return storage.ErrNotFound
	}

	member.StoreNumbers = append(member.StoreNumbers[:index], member.StoreNumbers[index+1:]...)
	delete(s.stores, storeNumber)
	if len(member.StoreNumbers) == 0 {
		delete(s.members, member.MemberID)
	}
	return nil
}

func (s *FakeMemberStorage) SetBoardStatus(_ context.Context, name, storeNumber string, isBoardMember bool) (*storage.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := s.byNameLocked(name)
	if member == nil {
		if !isBoardMember {
			return nil, storage.ErrNotFound
		}
		var err error
		member, err = s.addLocked(name, storeNumber)
		if err != nil {
			return nil, err
		}
	}
	member.IsBoardMember = isBoardMember
	return member, nil
}

func (s *FakeMemberStorage) byNameLocked(name string) *storage.Member {
	for _, m := range s.members {
		if m.MemberName == name {
			return m
		}
	}
	return nil
}

type FakeCheckInStorage struct {
	mu   sync.Mutex
	rows map[string]map[string]*storage.CheckIn // event id -> member id
}

func NewFakeCheckInStorage() *FakeCheckInStorage {
	return &FakeCheckInStorage{rows: make(map[string]map[string]*storage.CheckIn)}
}

func (s *FakeCheckInStorage) CheckIn(_ context.Context, eventID string, member *storage.Member) (*storage.CheckIn, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.rows[eventID][member.MemberID]; ok {
		existing.UpdatedCheckInTime = now
		return existing, false, nil
	}

	checkIn := &storage.CheckIn{
		EventID:            eventID,
		MemberID:           member.MemberID,
		MemberName:         member.MemberName,
		CheckInTime:        now,
		UpdatedCheckInTime: now,
		HasVoted:           false,
	}
	if s.rows[eventID] == nil {
		s.rows[eventID] = make(map[string]*storage.CheckIn)
	}
	s.rows[eventID][member.MemberID] = checkIn
	return checkIn, true, nil
}

func (s *FakeCheckInStorage) Get(_ context.Context, eventID, memberID string) (*storage.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[eventID][memberID], nil
}

func (s *FakeCheckInStorage) GetAll(_ context.Context, eventID string) ([]*storage.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkIns := make([]*storage.CheckIn, 0, len(s.rows[eventID]))
	for _, ci := range s.rows[eventID] {
		checkIns = append(checkIns, ci)
	}
	return checkIns, nil
}

func (s *FakeCheckInStorage) GetVoted(_ context.Context, eventID string) ([]*storage.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var voted []*storage.CheckIn
	for _, ci := range s.rows[eventID] {
		if ci.HasVoted {
			voted = append(voted, ci)
		}
	}
	return voted, nil
}

func (s *FakeCheckInStorage) DeleteAll(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, eventID)
	return nil
}

type FakeCandidateStorage struct {
	mu         sync.Mutex
	candidates map[string]*storage.Candidate
}

func NewFakeCandidateStorage() *FakeCandidateStorage {
	return &FakeCandidateStorage{candidates: make(map[string]*storage.Candidate)}
}

func (s *FakeCandidateStorage) GetAll(_ context.Context) ([]*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]*storage.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *FakeCandidateStorage) Get(_ context.Context, memberID string) (*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates[memberID], nil
}

func (s *FakeCandidateStorage) Create(_ context.Context, candidate *storage.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.candidates[candidate.MemberID]; exists {
		return storage.ErrCandidateExists
	}
	s.candidates[candidate.MemberID] = candidate
	return nil
}

func (s *FakeCandidateStorage) Delete(_ context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.candidates, memberID)
	return nil
}

func (s *FakeCandidateStorage) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = make(map[string]*storage.Candidate)
	return nil
}

type FakePolicyStorage struct {
	mu     sync.Mutex
	policy *storage.SelectionPolicy
}

func NewFakePolicyStorage() *FakePolicyStorage {
	return &FakePolicyStorage{}
}

func (s *FakePolicyStorage) Get(_ context.Context) (*storage.SelectionPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == nil {
		return &storage.SelectionPolicy{
			MinChoice: storage.DefaultMinChoice,
			MaxChoice: storage.DefaultMaxChoice,
		}, nil
	}
	return s.policy, nil
}

func (s *FakePolicyStorage) SetMin(_ context.Context, minChoice int) (*storage.SelectionPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if minChoice < 1 {
		return nil, storage.ErrInvalidPolicy
	}
	if s.policy == nil {
		s.policy = &storage.SelectionPolicy{MinChoice: minChoice, MaxChoice: minChoice}
		return s.policy, nil
	}
	if minChoice > s.policy.MaxChoice {
		return nil, storage.ErrInvalidPolicy
	}
	s.policy.MinChoice = minChoice
	return s.policy, nil
}

func (s *FakePolicyStorage) SetMax(_ context.Context, maxChoice int) (*storage.SelectionPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if maxChoice < 1 {
		return nil, storage.ErrInvalidPolicy
	}
	if s.policy == nil {
		s.policy = &storage.SelectionPolicy{MinChoice: storage.DefaultMinChoice, MaxChoice: maxChoice}
		if s.policy.MinChoice > maxChoice {
			return nil, storage.ErrInvalidPolicy
		}
		return s.policy, nil
	}
	if maxChoice < s.policy.MinChoice {
		return nil, storage.ErrInvalidPolicy
	}
	s.policy.MaxChoice = maxChoice
	return s.policy, nil
}

// FakeVoteStorage commits against the fake ledgers under both locks, so the
// all-or-nothing contract of the Dynamo transaction holds here too.
type FakeVoteStorage struct {
	CheckIns   *FakeCheckInStorage
	Candidates *FakeCandidateStorage
}

func (s *FakeVoteStorage) CommitBallot(_ context.Context, eventID, memberID string, candidateIDs []string) error {
	s.CheckIns.mu.Lock()
	defer s.CheckIns.mu.Unlock()
	s.Candidates.mu.Lock()
	defer s.Candidates.mu.Unlock()

	checkIn, ok := s.CheckIns.rows[eventID][memberID]
	if !ok {
		return storage.ErrNotCheckedIn
	}
	if checkIn.HasVoted {
		return storage.ErrAlreadyVoted
	}
	for _, id := range candidateIDs {
		if _, exists := s.Candidates.candidates[id]; !exists {
			return storage.ErrNotFound
		}
	}

	for _, id := range candidateIDs {
		s.Candidates.candidates[id].VoteCount++
	}
	checkIn.HasVoted = true
	return nil
}

type FakeMediaStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewFakeMediaStorage() *FakeMediaStorage {
	return &FakeMediaStorage{objects: make(map[string][]byte)}
}

func (s *FakeMediaStorage) Upload(_ context.Context, name string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := fmt.Sprintf("https://media.test/%s-%s", uuid.NewString(), name)
	s.objects[url] = data
	return url, nil
}

func (s *FakeMediaStorage) Delete(_ context.Context, publicURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, publicURL)
	return nil
}
