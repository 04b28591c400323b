package lexical

var firstNames = []string{
	"Peter", "Albert", "Sean", "Adam", "Izaac", "Arthur", "Mason",
	"Kiara", "Julianna", "Kanika", "Toni", "Izhary", "Hana", "Leanne",
}

var lastNames = []string{
	"Stoyanov", "Ong", "Kwan", "Whittome", "Murray", "Bradley", "Calter",
	"Bailey", "Fortun", "Abbott", "Kim", "Suaverdez", "Lee", "Doe",
}

// adjectives for username generation
var adjectives = []string{
	"Brave", "Calm", "Mighty", "Handsome", "Fancy", "Gentle", "Happy", "Icy",
	"Jolly", "Lively", "Noble", "Rapid", "Silly", "Tiny", "Unique", "Warm",
}

// nouns for username generation
var nouns = []string{
	"Apple", "Bridge", "Rocket", "Dragon", "Engine", "Forest", "Star", "Helmet",
	"Island", "Kitten", "Puppy", "Market", "Ladder", "Orange", "Planet", "Lamp",
}

var emailDomains = []string{
	"gmail.com", "outlook.com", "icloud.com", "yahoo.com",
}

var streetNames = []string{
	"Main", "High", "Maple", "Oak", "Pine", "Cedar", "Elm", "Birch", "Lakeview",
	"Hillside", "Almondbury", "Walnut", "Curtin", "Garden", "North", "East",
	"South", "West",
}

// streetTypes lists "Loop" twice, so it is drawn twice as often as the others.
var streetTypes = []string{
	"Street", "Avenue", "Boulevard", "Lane", "Road", "Drive", "Terrace", "Place",
	"Loop", "Crescent", "Way", "Loop", "Parade", "Pass", "Highway", "Parkway",
	"Circle", "Square",
}
