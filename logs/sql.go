package logs

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  day string not null,
  id integer not null,
  time datetime,
  width int,
  height int,
  player1 varchar,
  player2 varchar,
  result string,
  winner string,
  moves int
)`

const createPlayerView = `
CREATE VIEW IF NOT EXISTS player_games (
  day, id, player, opponent, color, win, result, width, height, moves
) AS
SELECT day, id, player2, player1, 'black',
       CASE winner WHEN 'white' THEN 'lose' WHEN 'black' THEN 'win' ELSE 'tie' END,
       result, width, height, moves
 FROM games
UNION
SELECT day, id, player1, player2, 'white',
       CASE winner WHEN 'white' THEN 'win' WHEN 'black' THEN 'lose' ELSE 'tie' END,
       result, width, height, moves
 FROM games
`

const insertStmt = `
INSERT INTO games (day, id, time, width, height, player1, player2, result, winner, moves)
VALUES (:day, :id, :time, :width, :height, :player1, :player2, :result, :winner, :moves)
`

const selectGames = `
SELECT day, id, time, width, height, player1, player2, result, winner, moves
FROM games
ORDER BY day, id
`

const selectPlayerDays = `
SELECT day, player,
       COUNT(*) AS games,
       SUM(win = 'win') AS wins,
       SUM(win = 'lose') AS losses
FROM player_games
WHERE player = ?
GROUP BY day, player
ORDER BY day
`
