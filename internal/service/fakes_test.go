package service

import (
	"context"
	"time"

	"github.com/pvhoang/quizforge/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes shared across the service tests. They mimic the
// lookup and error semantics of the gorm-backed implementations, including
// gorm.ErrRecordNotFound on misses.

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*model.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(user model.User) *model.User {
	if user.ID == 0 {
		user.ID = r.nextID
	}
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	stored := user
	r.users[stored.ID] = &stored
	return &stored
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(token string) (*model.User, error) {
	for _, user := range r.users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			copy := *user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAllActive() ([]model.User, error) {
	var users []model.User
	for _, user := range r.users {
		if user.Status == model.UserStatusActive {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) FindReminderOptIn() ([]model.User, error) {
	var users []model.User
	for _, user := range r.users {
		if user.Status == model.UserStatusActive && user.DailyReminder {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) FindPendingDelete() ([]model.User, error) {
	var users []model.User
	for _, user := range r.users {
		if user.Status == model.UserStatusPendingDelete {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) HardDelete(id uint) error {
	delete(r.users, id)
	return nil
}

type fakeQuizRepo struct {
	quizzes   map[uint]*model.Quiz
	nextID    uint
	tagNames  []string
	createErr error
	deleted   []uint
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: map[uint]*model.Quiz{}, nextID: 1}
}

func (r *fakeQuizRepo) add(quiz model.Quiz) *model.Quiz {
	if quiz.ID == 0 {
		quiz.ID = r.nextID
	}
	if quiz.ID >= r.nextID {
		r.nextID = quiz.ID + 1
	}
	stored := quiz
	r.quizzes[stored.ID] = &stored
	return &stored
}

func (r *fakeQuizRepo) Create(quiz *model.Quiz) error {
	if r.createErr != nil {
		return r.createErr
	}
	quiz.ID = r.nextID
	r.nextID++
	stored := *quiz
	r.quizzes[quiz.ID] = &stored
	return nil
}

func (r *fakeQuizRepo) Update(quiz *model.Quiz) error {
	stored := *quiz
	r.quizzes[quiz.ID] = &stored
	return nil
}

func (r *fakeQuizRepo) FindByID(id uint) (*model.Quiz, error) {
	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *quiz
	return &copy, nil
}

func (r *fakeQuizRepo) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	return r.FindByID(id)
}

func (r *fakeQuizRepo) FindDailyByDate(date time.Time) (*model.Quiz, error) {
	day := date.Format("2006-01-02")
	for _, quiz := range r.quizzes {
		if quiz.DailyDate != nil && quiz.DailyDate.Format("2006-01-02") == day {
			copy := *quiz
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuizRepo) ListPublic() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	for _, quiz := range r.quizzes {
		if quiz.Public {
			quizzes = append(quizzes, *quiz)
		}
	}
	return quizzes, nil
}

func (r *fakeQuizRepo) ListByCreator(creatorID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	for _, quiz := range r.quizzes {
		if quiz.CreatorID == creatorID {
			quizzes = append(quizzes, *quiz)
		}
	}
	return quizzes, nil
}

func (r *fakeQuizRepo) ListIDsByCreator(creatorID uint) ([]uint, error) {
	var ids []uint
	for _, quiz := range r.quizzes {
		if quiz.CreatorID == creatorID {
			ids = append(ids, quiz.ID)
		}
	}
	return ids, nil
}

func (r *fakeQuizRepo) DistinctTagNames() ([]string, error) {
	if r.tagNames != nil {
		return r.tagNames, nil
	}
	seen := map[string]bool{}
	var names []string
	for _, quiz := range r.quizzes {
		for _, t := range quiz.Tags {
			if !seen[t.Name] {
				seen[t.Name] = true
				names = append(names, t.Name)
			}
		}
	}
	return names, nil
}

func (r *fakeQuizRepo) Delete(id uint) error {
	delete(r.quizzes, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeQuestionRepo struct {
	questions map[uint]*model.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: map[uint]*model.Question{}}
}

func (r *fakeQuestionRepo) add(q model.Question) *model.Question {
	stored := q
	r.questions[stored.ID] = &stored
	return &stored
}

func (r *fakeQuestionRepo) Create(q *model.Question) error {
	stored := *q
	r.questions[q.ID] = &stored
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *q
	return &copy, nil
}

func (r *fakeQuestionRepo) FindByQuizID(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	for _, q := range r.questions {
		if q.QuizID == quizID {
			questions = append(questions, *q)
		}
	}
	return questions, nil
}

func (r *fakeQuestionRepo) Update(q *model.Question) error {
	stored := *q
	r.questions[q.ID] = &stored
	return nil
}

func (r *fakeQuestionRepo) Delete(id uint) error {
	delete(r.questions, id)
	return nil
}

type fakeResultRepo struct {
	results []model.QuizResult
	// IDs of quizzes that count as daily for HasDailyResultSince.
	dailyQuizIDs map[uint]bool
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{dailyQuizIDs: map[uint]bool{}}
}

func (r *fakeResultRepo) Create(result *model.QuizResult) error {
	result.ID = uint(len(r.results) + 1)
	r.results = append(r.results, *result)
	return nil
}

func (r *fakeResultRepo) FindByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	for _, res := range r.results {
		if res.UserID == userID {
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *fakeResultRepo) HasDailyResultSince(userID uint, since time.Time) (bool, error) {
	for _, res := range r.results {
		if res.UserID == userID && r.dailyQuizIDs[res.QuizID] && !res.PlayedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type ratingKey struct {
	userID uint
	quizID uint
}

type fakeRatingRepo struct {
	ratings map[ratingKey]*model.QuizRating
	nextID  uint
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[ratingKey]*model.QuizRating{}, nextID: 1}
}

func (r *fakeRatingRepo) Save(rating *model.QuizRating) error {
	if rating.ID == 0 {
		rating.ID = r.nextID
		r.nextID++
	}
	stored := *rating
	r.ratings[ratingKey{rating.UserID, rating.QuizID}] = &stored
	return nil
}

func (r *fakeRatingRepo) FindByUserAndQuiz(userID, quizID uint) (*model.QuizRating, error) {
	rating, ok := r.ratings[ratingKey{userID, quizID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *rating
	return &copy, nil
}

func (r *fakeRatingRepo) ListByQuiz(quizID uint) ([]model.QuizRating, error) {
	var ratings []model.QuizRating
	for _, rating := range r.ratings {
		if rating.QuizID == quizID {
			ratings = append(ratings, *rating)
		}
	}
	return ratings, nil
}

type fakeFavoriteRepo struct {
	favorites map[ratingKey]*model.QuizFavorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: map[ratingKey]*model.QuizFavorite{}}
}

func (r *fakeFavoriteRepo) Create(fav *model.QuizFavorite) error {
	stored := *fav
	r.favorites[ratingKey{fav.UserID, fav.QuizID}] = &stored
	return nil
}

func (r *fakeFavoriteRepo) Delete(userID, quizID uint) error {
	delete(r.favorites, ratingKey{userID, quizID})
	return nil
}

func (r *fakeFavoriteRepo) FindByUserAndQuiz(userID, quizID uint) (*model.QuizFavorite, error) {
	fav, ok := r.favorites[ratingKey{userID, quizID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *fav
	return &copy, nil
}

func (r *fakeFavoriteRepo) ListByUser(userID uint) ([]model.QuizFavorite, error) {
	var favs []model.QuizFavorite
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			favs = append(favs, *fav)
		}
	}
	return favs, nil
}

type sentEmail struct {
	to       string
	subject  string
	template string
	vars     map[string]string
}

type fakeEmailService struct {
	sent []sentEmail
}

func (s *fakeEmailService) SendToUser(user *model.User, subject, templateName string, vars map[string]string) error {
	s.sent = append(s.sent, sentEmail{to: user.Email, subject: subject, template: templateName, vars: vars})
	return nil
}

func (s *fakeEmailService) byTemplate(name string) []sentEmail {
	var out []sentEmail
	for _, e := range s.sent {
		if e.template == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeFetcher struct {
	questions []GeneratedQuestion
	err       error
	calls     int
}

func (f *fakeFetcher) FetchQuestions(ctx context.Context, category string) ([]GeneratedQuestion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}
