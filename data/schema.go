package data

const usersSchema = `
CREATE TABLE IF NOT EXISTS Users (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    AuthId TEXT NOT NULL UNIQUE,         -- subject JWT
    Nickname TEXT NOT NULL,
    Email TEXT NOT NULL UNIQUE COLLATE NOCASE,
    PasswordHash TEXT NOT NULL,
    Subscribe BOOLEAN NOT NULL DEFAULT 0,
    Provider TEXT NOT NULL DEFAULT 'local',
    Role TEXT NOT NULL DEFAULT 'USER',
    StartTodoAtMonday BOOLEAN NOT NULL DEFAULT 0,
    EndTodoBackSetting BOOLEAN NOT NULL DEFAULT 0,
    NewTodoStartSetting BOOLEAN NOT NULL DEFAULT 0,
    IsAlarm BOOLEAN NOT NULL DEFAULT 0,
    CalendarAlarmSetting BOOLEAN NOT NULL DEFAULT 0,
    DdayAlarmSetting BOOLEAN NOT NULL DEFAULT 0,
    TimetableAlarmSetting BOOLEAN NOT NULL DEFAULT 0,
    AccountExpired BOOLEAN NOT NULL DEFAULT 0,
    CreatedAt DATETIME NOT NULL,
    UpdatedAt DATETIME NOT NULL
);
`

const mainSchema = `
CREATE TABLE IF NOT EXISTS Calendars (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    UserId INTEGER NOT NULL,
    Name TEXT NOT NULL,
    StartDate TEXT NOT NULL,             -- "yyyy-MM-dd", сравнивается лексикографически
    EndDate TEXT NOT NULL,               -- "yyyy-MM-dd"
    StartTime TEXT,                      -- "HH:mm"
    EndTime TEXT,                        -- "HH:mm"
    Repetition TEXT NOT NULL DEFAULT '',
    Dday TEXT NOT NULL DEFAULT 'N',      -- 'Y' / 'N'
    Memo TEXT NOT NULL DEFAULT '',
    Color TEXT NOT NULL DEFAULT '',
    CreatedAt DATETIME NOT NULL,
    UpdatedAt DATETIME NOT NULL,
    FOREIGN KEY (UserId) REFERENCES Users(Id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_calendars_user_end ON Calendars (UserId, EndDate);

CREATE TABLE IF NOT EXISTS Categories (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    UserId INTEGER NOT NULL,
    Name TEXT NOT NULL,
    Color TEXT NOT NULL DEFAULT '',
    IconId INTEGER NOT NULL DEFAULT 0,
    CreatedAt DATETIME NOT NULL,
    UpdatedAt DATETIME NOT NULL,
    FOREIGN KEY (UserId) REFERENCES Users(Id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS Todos (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    UserId INTEGER NOT NULL,
    CategoryId INTEGER NOT NULL,
    Date TEXT NOT NULL,                  -- "yyyy-MM-dd"
    Name TEXT NOT NULL,
    Complete BOOLEAN NOT NULL DEFAULT 0,
    Repetition TEXT NOT NULL DEFAULT '',
    CreatedAt DATETIME NOT NULL,
    UpdatedAt DATETIME NOT NULL,
    FOREIGN KEY (UserId) REFERENCES Users(Id) ON DELETE CASCADE,
    FOREIGN KEY (CategoryId) REFERENCES Categories(Id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_todos_user_date ON Todos (UserId, Date);
`

// GetSchema возвращает полную схему БД. Колонки, добавленные позже
// (RepeatInfo, IsExpired, PhotoUrl), докатываются в Migrate.
func GetSchema() string {
	return usersSchema + mainSchema
}
