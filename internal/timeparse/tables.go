package timeparse

// Weekday indexes start at 0 for Monday.
var weekdays = map[string]int{
	"понедельник": 0, "пн": 0,
	"вторник": 1, "вт": 1,
	"среда": 2, "ср": 2, "среду": 2,
	"четверг": 3, "чт": 3, "чтв": 3,
	"пятница": 4, "пт": 4, "пятницу": 4,
	"суббота": 5, "сб": 5, "суб": 5, "субботу": 5,
	"воскресенье": 6, "вс": 6, "воскр": 6, "воскресение": 6,
}

var months = map[string]int{
	"января": 1, "янв": 1, "январь": 1,
	"февраля": 2, "фев": 2, "февраль": 2,
	"марта": 3, "мар": 3, "март": 3,
	"апреля": 4, "апр": 4, "апрель": 4,
	"мая": 5, "май": 5,
	"июня": 6, "июн": 6, "июнь": 6,
	"июля": 7, "июл": 7, "июль": 7,
	"августа": 8, "авг": 8, "август": 8,
	"сентября": 9, "сен": 9, "сент": 9, "сентябрь": 9,
	"октября": 10, "окт": 10, "октябрь": 10,
	"ноября": 11, "ноя": 11, "нояб": 11, "ноябрь": 11,
	"декабря": 12, "дек": 12, "декабрь": 12,
}

var partsOfDay = map[string]int{
	"утром": 9, "утра": 9,
	"днём": 14, "днем": 14, "дня": 14,
	"вечером": 19, "вечера": 19,
	"ночью": 23, "ночи": 23,
}

// smallNumbers covers the spelled-out counts people type after "через".
var smallNumbers = map[string]int{
	"одну": 1, "одна": 1, "один": 1,
	"две": 2, "два": 2, "двух": 2,
	"три": 3, "трёх": 3, "трех": 3,
	"четыре": 4, "четырёх": 4, "четырех": 4,
	"пять": 5, "пяти": 5,
	"шесть": 6, "шести": 6,
	"семь": 7, "семи": 7,
	"восемь": 8, "восьми": 8,
	"девять": 9, "девяти": 9,
	"десять": 10, "десяти": 10,
	"пятнадцать": 15, "пятнадцати": 15,
	"двадцать": 20, "двадцати": 20,
	"тридцать": 30, "тридцати": 30,
	"сорок": 40, "сорока": 40,
	"пятьдесят": 50, "пятидесяти": 50,
}
