package handler

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts every API route under api.
func RegisterRoutes(api fiber.Router, scrape *ScrapeHandler, quizSets *QuizSetHandler, questions *QuestionHandler) {
	api.Post("/startScraping", scrape.StartScraping)

	api.Get("/quizSets", quizSets.ListQuizSets)
	api.Put("/quizSets/:id", quizSets.RenameQuizSet)
	api.Get("/quizSets/:id", quizSets.Details)
	api.Delete("/quizSets/:id", quizSets.DeleteQuizSet)
	api.Get("/quizSets/:id/questions", quizSets.ListQuestions)
	api.Get("/quizSets/:id/favorites", quizSets.ListFavorites)
	api.Post("/quizSets/:id/shuffle", quizSets.ShuffleQuestions)

	api.Get("/questions/:id/discussion", questions.Discussion)
	api.Post("/questions/:id/favorite", questions.ToggleFavorite)
	api.Post("/questions/:id/explanation", questions.Explain)
	api.Put("/questions/:id/explanation", questions.SaveExplanation)
	api.Get("/questions/:id/explanation", questions.GetExplanation)
}
