package quiz

// Question is a quiz question with its canonical answer.
type Question struct {
	Text   string
	Answer string
}

// DefaultQuestions is the built-in question bank.
var DefaultQuestions = []Question{
	{Text: "Столица Франции?", Answer: "Париж"},
	{Text: "Столица Австрии?", Answer: "Вена"},
	{Text: "Столица России?", Answer: "Москва"},
	{Text: "2 + 2 = ?", Answer: "4"},
	{Text: "Самая большая планета?", Answer: "Юпитер"},
	{Text: "Кто написал 'Войну и мир'?", Answer: "Толстой"},
	{Text: "Сколько будет 7²?", Answer: "49"},
	{Text: "Чему равно 2³ + 3²?", Answer: "17"},
	{Text: "Сколько сторон у пентагона?", Answer: "5"},
	{Text: "Сколько континентов на Земле?", Answer: "7"},
	{Text: "Какой язык самый распространённый?", Answer: "Английский"},
}
